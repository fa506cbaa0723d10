package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/logger"
	"github.com/Strob0t/CRMForge/internal/port/messagequeue"
	"github.com/Strob0t/CRMForge/internal/resilience"
)

// Recorder receives service-level measurements. adapter/otel.Metrics
// implements it.
type Recorder interface {
	RecordMutation(ctx context.Context, entity, action string)
	RecordEvent(ctx context.Context, subject string, err error)
	RecordDashboard(ctx context.Context, seconds float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(context.Context, string, string) {}
func (nopRecorder) RecordEvent(context.Context, string, error)     {}
func (nopRecorder) RecordDashboard(context.Context, float64)       {}

// Events publishes change notifications after successful writes. Publishing
// is best-effort: failures are logged and counted, never returned.
type Events struct {
	pub     messagequeue.Publisher
	breaker *resilience.Breaker
	rec     Recorder
	now     func() time.Time
}

// NewEvents creates an event emitter. A nil publisher discards events and a
// nil recorder records nothing.
func NewEvents(pub messagequeue.Publisher, breaker *resilience.Breaker, rec Recorder) *Events {
	if pub == nil {
		pub = messagequeue.Discard{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Events{pub: pub, breaker: breaker, rec: rec, now: time.Now}
}

// Emit publishes one change. payload is the row as stored, or nil.
func (e *Events) Emit(ctx context.Context, entity string, action event.Action, id string, payload any) {
	if e == nil {
		return
	}
	e.rec.RecordMutation(ctx, entity, string(action))

	c := event.Change{
		Entity:    entity,
		Action:    action,
		ID:        id,
		UserID:    access.OwnerFromContext(ctx),
		RequestID: logger.RequestID(ctx),
		CreatedAt: e.now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			slog.ErrorContext(ctx, "marshal change payload", "entity", entity, "error", err)
			return
		}
		c.Payload = raw
	}
	data, err := json.Marshal(c)
	if err != nil {
		slog.ErrorContext(ctx, "marshal change", "entity", entity, "error", err)
		return
	}

	subject := c.Subject()
	publish := func(ctx context.Context) error { return e.pub.Publish(ctx, subject, data) }
	if e.breaker != nil {
		err = e.breaker.Execute(ctx, publish)
	} else {
		err = publish(ctx)
	}
	e.rec.RecordEvent(ctx, subject, err)
	if err != nil {
		slog.WarnContext(ctx, "change event not published", "subject", subject, "id", id, "error", err)
	}
}
