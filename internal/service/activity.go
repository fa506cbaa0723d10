package service

import (
	"context"

	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// ActivityService manages the append-only activity log.
type ActivityService struct {
	*Screen[activity.Activity, activity.Input]
}

// NewActivityService creates an ActivityService.
func NewActivityService(store database.Store, events *Events) *ActivityService {
	return &ActivityService{newScreen[activity.Activity, activity.Input](screenDef[activity.Activity]{
		entity: event.EntityActivity,
		embed:  []string{activity.RelContact, activity.RelCompany, activity.RelDeal},
		id:     func(a *activity.Activity) string { return a.ID },
		match:  (*activity.Activity).Matches,
	}, store.Activities(), events)}
}

// View lists activities matching term, optionally restricted to one type.
func (s *ActivityService) View(ctx context.Context, q database.Query, term, typ string) (View[activity.Activity], error) {
	var want activity.Type
	if typ != "" {
		t, err := activity.ParseType(typ)
		if err != nil {
			return View[activity.Activity]{}, err
		}
		want = t
	}
	rows, err := s.List(ctx, q, term)
	if err != nil {
		return View[activity.Activity]{}, err
	}
	if want != "" {
		kept := rows[:0]
		for _, a := range rows {
			if a.Type == want {
				kept = append(kept, a)
			}
		}
		rows = kept
	}
	return NewView(rows), nil
}
