// Package dashboard derives summary statistics from the current user's data.
package dashboard

import (
	"math"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
)

// Inputs are the results of the dashboard's independent queries.
type Inputs struct {
	ContactCount  int64
	CompanyCount  int64
	ActivityCount int64
	Deals         []deal.Deal
	Tasks         []task.Task
}

// Summary is the derived dashboard.
type Summary struct {
	ContactCount  int64 `json:"contact_count"`
	CompanyCount  int64 `json:"company_count"`
	ActivityCount int64 `json:"activity_count"`
	DealCount     int   `json:"deal_count"`
	TaskCount     int   `json:"task_count"`

	TotalDealValue     float64 `json:"total_deal_value"`
	AverageDealValue   float64 `json:"average_deal_value"`
	ContactsPerCompany float64 `json:"contacts_per_company"`

	ActiveTasks    int `json:"active_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	CompletedTasks int `json:"completed_tasks"`

	// TaskCompletionRate is active ÷ (active + overdue) as a percentage.
	// Completed tasks are not part of either term.
	TaskCompletionRate float64 `json:"task_completion_rate"`
	// CompletedTaskRatio is completed ÷ all tasks as a percentage.
	CompletedTaskRatio float64 `json:"completed_task_ratio"`

	StageCounts map[deal.Stage]int `json:"stage_counts"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Compute derives the summary. Overdue is evaluated against now.
func Compute(in Inputs, now time.Time) Summary {
	s := Summary{
		ContactCount:  in.ContactCount,
		CompanyCount:  in.CompanyCount,
		ActivityCount: in.ActivityCount,
		DealCount:     len(in.Deals),
		TaskCount:     len(in.Tasks),
		StageCounts:   make(map[deal.Stage]int, len(deal.Stages)),
		GeneratedAt:   now,
	}

	for _, st := range deal.Stages {
		s.StageCounts[st] = 0
	}
	for i := range in.Deals {
		s.TotalDealValue += in.Deals[i].Value
		s.StageCounts[in.Deals[i].Stage]++
	}

	for i := range in.Tasks {
		t := &in.Tasks[i]
		switch {
		case t.Status.Active():
			s.ActiveTasks++
			if t.IsOverdue(now) {
				s.OverdueTasks++
			}
		case t.Status == task.StatusCompleted:
			s.CompletedTasks++
		}
	}

	s.AverageDealValue = ratio(s.TotalDealValue, float64(s.DealCount))
	s.ContactsPerCompany = math.Round(ratio(float64(s.ContactCount), float64(s.CompanyCount))*10) / 10
	s.TaskCompletionRate = math.Round(ratio(float64(s.ActiveTasks), float64(s.ActiveTasks+s.OverdueTasks)) * 100)
	s.CompletedTaskRatio = math.Round(ratio(float64(s.CompletedTasks), float64(s.TaskCount)) * 100)
	return s
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
