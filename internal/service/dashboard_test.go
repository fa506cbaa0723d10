package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

func TestDashboardService_Load(t *testing.T) {
	store := newStore()
	ctx := ctxFor(userA)
	events := NewEvents(nil, nil, nil)

	acme, err := NewCompanyService(store, events).Create(ctx, company.Input{Name: "Acme"})
	mustOK(t, err)
	_, err = NewContactService(store, events).Create(ctx, contact.Input{FirstName: "Jane", LastName: "Doe", CompanyID: acme.Record.ID})
	mustOK(t, err)

	deals := NewDealService(store, events)
	_, err = deals.Create(ctx, deal.Input{Title: "A", Value: "1000", Stage: "lead"})
	mustOK(t, err)
	_, err = deals.Create(ctx, deal.Input{Title: "B", Value: "2000", Stage: "qualified"})
	mustOK(t, err)

	tasks := NewTaskService(store, events)
	_, err = tasks.Create(ctx, task.Input{Title: "late", DueDate: "2025-06-01"})
	mustOK(t, err)
	_, err = tasks.Create(ctx, task.Input{Title: "done", Status: "completed"})
	mustOK(t, err)

	svc := NewDashboardService(store, nil).WithClock(func() time.Time { return fixedNow })
	sum, err := svc.Load(ctx)
	mustOK(t, err)

	if sum.TotalDealValue != 3000 || sum.AverageDealValue != 1500 {
		t.Errorf("deal value total/avg = %v/%v, want 3000/1500", sum.TotalDealValue, sum.AverageDealValue)
	}
	if sum.StageCounts[deal.StageLead] != 1 || sum.StageCounts[deal.StageQualified] != 1 {
		t.Errorf("stage counts = %v", sum.StageCounts)
	}
	if len(sum.StageCounts) != len(deal.Stages) {
		t.Errorf("stage counts must list all stages, got %d", len(sum.StageCounts))
	}
	if sum.ContactCount != 1 || sum.CompanyCount != 1 {
		t.Errorf("contacts/companies = %d/%d", sum.ContactCount, sum.CompanyCount)
	}
	if sum.ActiveTasks != 1 || sum.OverdueTasks != 1 || sum.CompletedTasks != 1 {
		t.Errorf("tasks active/overdue/completed = %d/%d/%d", sum.ActiveTasks, sum.OverdueTasks, sum.CompletedTasks)
	}

	other, err := svc.Load(ctxFor(userB))
	mustOK(t, err)
	if other.DealCount != 0 || other.TotalDealValue != 0 {
		t.Errorf("user B dashboard = %+v", other)
	}
}

// failingStore fails the deal query.
type failingStore struct {
	database.Store
}

func (f failingStore) Deals() database.Table[deal.Deal] {
	return failingDeals{f.Store.Deals()}
}

type failingDeals struct {
	database.Table[deal.Deal]
}

var errBoom = errors.New("boom")

func (failingDeals) Select(context.Context, database.Query) ([]deal.Deal, error) {
	return nil, errBoom
}

func TestDashboardService_AnyFailureFailsLoad(t *testing.T) {
	svc := NewDashboardService(failingStore{newStore()}, nil)
	if _, err := svc.Load(ctxFor(userA)); !errors.Is(err, errBoom) {
		t.Fatalf("want errBoom, got %v", err)
	}
}
