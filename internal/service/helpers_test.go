package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Strob0t/CRMForge/internal/adapter/memory"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/event"
)

const (
	userA = "11111111-1111-1111-1111-111111111111"
	userB = "22222222-2222-2222-2222-222222222222"
)

func ctxFor(id string) context.Context {
	return access.WithOwner(context.Background(), id)
}

func newStore() *memory.Store {
	return memory.New(access.OwnerPolicy{})
}

// fakePublisher records published changes.
type fakePublisher struct {
	mu      sync.Mutex
	changes []event.Change
	err     error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	var c event.Change
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	if c.Subject() != subject {
		return errors.New("subject mismatch")
	}
	p.changes = append(p.changes, c)
	return nil
}

func (p *fakePublisher) published() []event.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Change(nil), p.changes...)
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
