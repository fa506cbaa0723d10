package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	crmotel "github.com/Strob0t/CRMForge/internal/adapter/otel"
	"github.com/Strob0t/CRMForge/internal/domain/dashboard"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// DashboardService loads the summary for the current user.
type DashboardService struct {
	store database.Store
	rec   Recorder
	now   func() time.Time
}

// NewDashboardService creates a DashboardService. A nil recorder records nothing.
func NewDashboardService(store database.Store, rec Recorder) *DashboardService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &DashboardService{store: store, rec: rec, now: time.Now}
}

// WithClock replaces the clock used for overdue evaluation.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Load runs the five dashboard queries concurrently. The first failure
// cancels the rest and fails the whole load.
func (s *DashboardService) Load(ctx context.Context) (*dashboard.Summary, error) {
	ctx, span := crmotel.StartDashboardSpan(ctx)
	defer span.End()
	start := time.Now()

	// Each goroutine writes a distinct field of in.
	var in dashboard.Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Contacts().Count(gctx, database.Query{})
		in.ContactCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Companies().Count(gctx, database.Query{})
		in.CompanyCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Activities().Count(gctx, database.Query{})
		in.ActivityCount = n
		return err
	})
	g.Go(func() error {
		rows, err := s.store.Deals().Select(gctx, database.Query{})
		in.Deals = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.Tasks().Select(gctx, database.Query{})
		in.Tasks = rows
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "dashboard load failed", "error", err)
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	sum := dashboard.Compute(in, s.now())
	s.rec.RecordDashboard(ctx, time.Since(start).Seconds())
	return &sum, nil
}
