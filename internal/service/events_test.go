package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/resilience"
)

func TestEvents_BreakerOpensAfterFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats down")}
	breaker := resilience.NewBreaker("events", 2, time.Hour)
	companies := NewCompanyService(newStore(), NewEvents(pub, breaker, nil))
	ctx := ctxFor(userA)

	for range 3 {
		_, err := companies.Create(ctx, company.Input{Name: "Acme"})
		mustOK(t, err)
	}
	if breaker.State() != resilience.StateOpen {
		t.Fatalf("breaker state = %v, want open", breaker.State())
	}
}

func TestEvents_CarryOwner(t *testing.T) {
	pub := &fakePublisher{}
	companies := NewCompanyService(newStore(), NewEvents(pub, nil, nil))

	res, err := companies.Create(ctxFor(userA), company.Input{Name: "Acme"})
	mustOK(t, err)

	got := pub.published()
	if len(got) != 1 {
		t.Fatalf("published %d events, want 1", len(got))
	}
	if got[0].UserID != userA || got[0].ID != res.Record.ID {
		t.Fatalf("event = %+v", got[0])
	}
}

func TestEvents_NilSafe(t *testing.T) {
	var e *Events
	e.Emit(ctxFor(userA), "company", "created", "x", nil)
}
