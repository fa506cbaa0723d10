package service

import (
	"context"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// TaskService manages the tasks screen. The overdue flag is evaluated on
// every response against the service clock.
type TaskService struct {
	*EditableScreen[task.Task, task.Input]
	now func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(store database.Store, events *Events) *TaskService {
	return &TaskService{
		EditableScreen: newEditableScreen[task.Task, task.Input](screenDef[task.Task]{
			entity: event.EntityTask,
			embed:  []string{task.RelContact, task.RelCompany, task.RelDeal},
			id:     func(t *task.Task) string { return t.ID },
			match:  (*task.Task).Matches,
		}, store.Tasks(), events),
		now: time.Now,
	}
}

// WithClock replaces the clock used for overdue evaluation.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// View lists tasks matching term, optionally restricted to one status.
// An empty status lists every task.
func (s *TaskService) View(ctx context.Context, q database.Query, term, status string) (View[task.Item], error) {
	var want task.Status
	if status != "" {
		st, err := task.ParseStatus(status)
		if err != nil {
			return View[task.Item]{}, err
		}
		want = st
	}
	rows, err := s.List(ctx, q, term)
	if err != nil {
		return View[task.Item]{}, err
	}
	if want != "" {
		kept := rows[:0]
		for _, t := range rows {
			if t.Status == want {
				kept = append(kept, t)
			}
		}
		rows = kept
	}
	return NewView(s.items(rows)), nil
}

// Overdue lists active tasks whose due date has passed.
func (s *TaskService) Overdue(ctx context.Context) ([]task.Item, error) {
	rows, err := s.List(ctx, database.Query{}, "")
	if err != nil {
		return nil, err
	}
	out := []task.Item{}
	for _, it := range s.items(rows) {
		if it.Overdue {
			out = append(out, it)
		}
	}
	return out, nil
}

// Item decorates one task with its overdue flag.
func (s *TaskService) Item(t task.Task) task.Item {
	return task.Item{Task: t, Overdue: t.IsOverdue(s.now())}
}

// Present converts a write result into screen items.
func (s *TaskService) Present(r *Result[task.Task]) *Result[task.Item] {
	out := &Result[task.Item]{List: s.items(r.List)}
	if r.Record != nil {
		it := s.Item(*r.Record)
		out.Record = &it
	}
	return out
}

// SetStatus moves a task to another status.
func (s *TaskService) SetStatus(ctx context.Context, id, status string) (*Result[task.Task], error) {
	st, err := task.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, task.StatusChange(st))
}

func (s *TaskService) items(rows []task.Task) []task.Item {
	now := s.now()
	out := make([]task.Item, len(rows))
	for i, t := range rows {
		out[i] = task.Item{Task: t, Overdue: t.IsOverdue(now)}
	}
	return out
}
