package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("service unavailable")

func fail(context.Context) error { return errTest }
func ok(context.Context) error   { return nil }

func TestClosedStateAllowsCalls(t *testing.T) {
	b := NewBreaker("test", 3, time.Second)
	called := false
	err := b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Fatal("expected fn to be called")
	}
}

func TestOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("test", 3, time.Second)
	ctx := context.Background()

	for range 3 {
		if err := b.Execute(ctx, fail); !errors.Is(err, errTest) {
			t.Fatalf("expected errTest, got %v", err)
		}
	}

	if err := b.Execute(ctx, ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}
}

func TestHalfOpenProbeCloses(t *testing.T) {
	now := time.Now()
	b := NewBreaker("test", 2, time.Second)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)

	if err := b.Execute(ctx, ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	now = now.Add(2 * time.Second)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %s, want half_open", b.State())
	}

	if err := b.Execute(ctx, ok); err != nil {
		t.Fatalf("expected probe to run, got %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("state = %s, want closed", b.State())
	}
}

func TestHalfOpenAllowsSingleProbe(t *testing.T) {
	now := time.Now()
	b := NewBreaker("test", 1, time.Second)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	now = now.Add(2 * time.Second)

	release := make(chan struct{})
	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		done <- b.Execute(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if err := b.Execute(ctx, ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second call during probe: expected ErrCircuitOpen, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker("test", 2, time.Second)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)
	now = now.Add(2 * time.Second)

	_ = b.Execute(ctx, fail)
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}
	if err := b.Execute(ctx, ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after reopen, got %v", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("test", 3, time.Second)
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, ok)
	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)

	if err := b.Execute(ctx, ok); err != nil {
		t.Fatalf("expected closed breaker, got %v", err)
	}
}
