package dashboard

import (
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
)

func TestComputeDealTotals(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	s := Compute(Inputs{
		Deals: []deal.Deal{
			{Value: 1000, Stage: deal.StageLead},
			{Value: 2000, Stage: deal.StageQualified},
		},
	}, now)

	if s.TotalDealValue != 3000 {
		t.Errorf("total = %v, want 3000", s.TotalDealValue)
	}
	if s.AverageDealValue != 1500 {
		t.Errorf("average = %v, want 1500", s.AverageDealValue)
	}
	if s.StageCounts[deal.StageLead] != 1 || s.StageCounts[deal.StageQualified] != 1 {
		t.Errorf("stage counts = %v", s.StageCounts)
	}
	if len(s.StageCounts) != len(deal.Stages) {
		t.Errorf("expected every stage present, got %d", len(s.StageCounts))
	}
	if s.StageCounts[deal.StageClosedWon] != 0 {
		t.Errorf("closed_won = %d, want 0", s.StageCounts[deal.StageClosedWon])
	}
}

func TestComputeTasks(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	s := Compute(Inputs{
		Tasks: []task.Task{
			{Status: task.StatusPending, DueDate: &past},
			{Status: task.StatusInProgress, DueDate: &future},
			{Status: task.StatusPending},
			{Status: task.StatusCompleted, DueDate: &past},
		},
	}, now)

	if s.ActiveTasks != 3 {
		t.Errorf("active = %d, want 3", s.ActiveTasks)
	}
	if s.OverdueTasks != 1 {
		t.Errorf("overdue = %d, want 1", s.OverdueTasks)
	}
	if s.CompletedTasks != 1 {
		t.Errorf("completed = %d, want 1", s.CompletedTasks)
	}
	// 3 / (3 + 1)
	if s.TaskCompletionRate != 75 {
		t.Errorf("task completion rate = %v, want 75", s.TaskCompletionRate)
	}
	// 1 / 4
	if s.CompletedTaskRatio != 25 {
		t.Errorf("completed ratio = %v, want 25", s.CompletedTaskRatio)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(Inputs{}, time.Now())
	if s.AverageDealValue != 0 || s.ContactsPerCompany != 0 || s.TaskCompletionRate != 0 {
		t.Errorf("expected zero ratios on empty input, got %+v", s)
	}
}

func TestComputeContactsPerCompany(t *testing.T) {
	s := Compute(Inputs{ContactCount: 7, CompanyCount: 3}, time.Now())
	if s.ContactsPerCompany != 2.3 {
		t.Errorf("contacts per company = %v, want 2.3", s.ContactsPerCompany)
	}
}
