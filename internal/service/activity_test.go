package service

import (
	"errors"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

func TestActivityService_TypeFilterAndOrder(t *testing.T) {
	acts := NewActivityService(newStore(), nil)
	ctx := ctxFor(userA)

	for _, in := range []activity.Input{
		{Type: "call", Subject: "intro", ActivityDate: "2025-01-01T10:00:00Z"},
		{Type: "email", Subject: "follow up", ActivityDate: "2025-01-03T10:00:00Z"},
		{Type: "call", Subject: "closing", ActivityDate: "2025-01-05T10:00:00Z"},
	} {
		_, err := acts.Create(ctx, in)
		mustOK(t, err)
	}

	view, err := acts.View(ctx, database.Query{}, "", "call")
	mustOK(t, err)
	if view.Total != 2 {
		t.Fatalf("calls = %d, want 2", view.Total)
	}
	if view.Items[0].Subject != "closing" {
		t.Fatalf("newest first: got %q", view.Items[0].Subject)
	}

	if _, err := acts.View(ctx, database.Query{}, "", "fax"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestActivityService_TypeRequired(t *testing.T) {
	acts := NewActivityService(newStore(), nil)
	if _, err := acts.Create(ctxFor(userA), activity.Input{Subject: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestActivityService_DateDefaultsToNow(t *testing.T) {
	acts := NewActivityService(newStore(), nil)
	res, err := acts.Create(ctxFor(userA), activity.Input{Type: "note", Subject: "memo"})
	mustOK(t, err)
	if res.Record.ActivityDate.IsZero() {
		t.Fatal("activity_date must default to submission time")
	}
}
