package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/logger"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T) *Queue {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	q, err := Connect(context.Background(), config.NATS{URL: url, Stream: "CRMFORGE_TEST"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := q.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return q
}

func testChange(entity string) event.Change {
	return event.Change{
		Entity:    entity,
		Action:    event.ActionCreated,
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

func TestQueue_PublishSubscribe(t *testing.T) {
	q := testConnect(t)
	ctx := context.Background()
	want := testChange(event.EntityDeal)

	got := make(chan event.Change, 1)
	stop, err := q.Subscribe(ctx, want.Subject(), func(_ context.Context, _ string, data []byte) error {
		var c event.Change
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if c.ID == want.ID {
			got <- c
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()

	data, _ := json.Marshal(want)
	if err := q.Publish(ctx, want.Subject(), data); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case c := <-got:
		if c.UserID != want.UserID {
			t.Errorf("user_id = %q, want %q", c.UserID, want.UserID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestQueue_RequestIDPropagation(t *testing.T) {
	q := testConnect(t)
	change := testChange(event.EntityTask)

	ids := make(chan string, 1)
	stop, err := q.Subscribe(context.Background(), change.Subject(), func(ctx context.Context, _ string, _ []byte) error {
		ids <- logger.RequestID(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()

	ctx := logger.WithRequestID(context.Background(), "req-42")
	data, _ := json.Marshal(change)
	if err := q.Publish(ctx, change.Subject(), data); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case id := <-ids:
		if id != "req-42" {
			t.Errorf("request id = %q, want req-42", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestQueue_PublishRejectsInvalidPayload(t *testing.T) {
	q := testConnect(t)
	if err := q.Publish(context.Background(), "crm.deal.created", []byte(`{"entity":"task"}`)); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestQueue_KeyValue(t *testing.T) {
	q := testConnect(t)
	ctx := context.Background()

	kv, err := q.KeyValue(ctx, "CRMFORGE_TEST_KV", time.Minute)
	if err != nil {
		t.Fatalf("KeyValue: %v", err)
	}
	if _, err := kv.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entry, err := kv.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(entry.Value()) != "v1" {
		t.Errorf("value = %q, want v1", entry.Value())
	}
}

func TestQueue_IsConnected(t *testing.T) {
	q := testConnect(t)
	if !q.IsConnected() {
		t.Fatal("expected connected")
	}
}
