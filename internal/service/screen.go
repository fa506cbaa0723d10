package service

import (
	"context"
	"fmt"

	crmotel "github.com/Strob0t/CRMForge/internal/adapter/otel"
	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// EmptyMessage is shown when a list has no rows.
const EmptyMessage = "no records"

// Form is a create/edit form producing rows of T.
type Form[T any] interface {
	Validate() error
	Row() T
	Changes() domain.Changes
}

// View is a list as presented on screen.
type View[V any] struct {
	Items   []V    `json:"items"`
	Total   int    `json:"total"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// NewView wraps items, flagging empty lists.
func NewView[V any](items []V) View[V] {
	if items == nil {
		items = []V{}
	}
	v := View[V]{Items: items, Total: len(items)}
	if len(items) == 0 {
		v.Empty = true
		v.Message = EmptyMessage
	}
	return v
}

// Result is the outcome of a write: the record as stored and the refetched
// list the screen should now display.
type Result[T any] struct {
	Record *T  `json:"record,omitempty"`
	List   []T `json:"items"`
}

// screenDef configures a Screen for one entity.
type screenDef[T any] struct {
	entity string
	embed  []string
	id     func(*T) string
	match  func(*T, string) bool
}

// Screen is the list-create-delete flow shared by every entity: each write
// is followed by a full refetch of the caller's list.
type Screen[T any, F Form[T]] struct {
	def    screenDef[T]
	table  database.Log[T]
	events *Events
}

func newScreen[T any, F Form[T]](def screenDef[T], table database.Log[T], events *Events) *Screen[T, F] {
	return &Screen[T, F]{def: def, table: table, events: events}
}

// List fetches the caller's rows with the screen's embeds, then applies the
// case-insensitive search term locally.
func (s *Screen[T, F]) List(ctx context.Context, q database.Query, term string) ([]T, error) {
	ctx, span := crmotel.StartScreenSpan(ctx, s.def.entity, "list")
	defer span.End()

	if len(q.Embed) == 0 {
		q.Embed = s.def.embed
	}
	rows, err := s.table.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.def.entity, err)
	}
	if term == "" || s.def.match == nil {
		return rows, nil
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		if s.def.match(&rows[i], term) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// Count returns the number of the caller's rows matching q.
func (s *Screen[T, F]) Count(ctx context.Context, q database.Query) (int64, error) {
	return s.table.Count(ctx, q)
}

// Get returns one row with the screen's embeds.
func (s *Screen[T, F]) Get(ctx context.Context, id string) (*T, error) {
	return s.table.Get(ctx, id, s.def.embed...)
}

// Create validates the form, inserts the row and refetches the list.
func (s *Screen[T, F]) Create(ctx context.Context, form F) (*Result[T], error) {
	ctx, span := crmotel.StartScreenSpan(ctx, s.def.entity, "create")
	defer span.End()

	if err := form.Validate(); err != nil {
		return nil, err
	}
	row, err := s.table.Insert(ctx, form.Row())
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.def.entity, err)
	}
	s.events.Emit(ctx, s.def.entity, event.ActionCreated, s.def.id(row), row)
	return s.refetch(ctx, row)
}

// Delete removes one row. Without confirmation nothing is sent to storage.
func (s *Screen[T, F]) Delete(ctx context.Context, id string, confirmed bool) (*Result[T], error) {
	if !confirmed {
		return nil, fmt.Errorf("delete %s %s: %w", s.def.entity, id, domain.ErrConfirmationRequired)
	}
	ctx, span := crmotel.StartScreenSpan(ctx, s.def.entity, "delete")
	defer span.End()

	if err := s.table.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete %s: %w", s.def.entity, err)
	}
	s.events.Emit(ctx, s.def.entity, event.ActionDeleted, id, nil)
	return s.refetch(ctx, nil)
}

// refetch reloads the record with its embeds and the full list.
func (s *Screen[T, F]) refetch(ctx context.Context, row *T) (*Result[T], error) {
	res := &Result[T]{Record: row}
	if row != nil && len(s.def.embed) > 0 {
		full, err := s.table.Get(ctx, s.def.id(row), s.def.embed...)
		if err != nil {
			return nil, fmt.Errorf("refetch %s: %w", s.def.entity, err)
		}
		res.Record = full
	}
	list, err := s.List(ctx, database.Query{}, "")
	if err != nil {
		return nil, err
	}
	res.List = list
	return res, nil
}

// EditableScreen adds full-form updates and single-column transitions.
type EditableScreen[T any, F Form[T]] struct {
	*Screen[T, F]
	table database.Table[T]
}

func newEditableScreen[T any, F Form[T]](def screenDef[T], table database.Table[T], events *Events) *EditableScreen[T, F] {
	return &EditableScreen[T, F]{Screen: newScreen[T, F](def, table, events), table: table}
}

// Update validates the form and overwrites every editable column.
func (s *EditableScreen[T, F]) Update(ctx context.Context, id string, form F) (*Result[T], error) {
	ctx, span := crmotel.StartScreenSpan(ctx, s.def.entity, "update")
	defer span.End()

	if err := form.Validate(); err != nil {
		return nil, err
	}
	row, err := s.table.Update(ctx, id, form.Changes())
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.def.entity, err)
	}
	s.events.Emit(ctx, s.def.entity, event.ActionUpdated, id, row)
	return s.refetch(ctx, row)
}

// transition writes a pre-validated single-column change. Repeating the same
// transition leaves the row unchanged apart from updated_at.
func (s *EditableScreen[T, F]) transition(ctx context.Context, id string, changes domain.Changes) (*Result[T], error) {
	ctx, span := crmotel.StartScreenSpan(ctx, s.def.entity, "transition")
	defer span.End()

	row, err := s.table.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", s.def.entity, err)
	}
	s.events.Emit(ctx, s.def.entity, event.ActionTransition, id, row)
	return s.refetch(ctx, row)
}
