package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// codec adapts one entity type to the generic table.
type codec[T any] struct {
	schema *database.Schema
	id     func(*T) *string
	owner  func(*T) *string
	stamp  func(row *T, now time.Time, insert bool)
	// field returns the column value as string, float64, time.Time or nil.
	field func(row *T, col string) any
	set   func(row *T, col string, v any) error
	check func(row *T) error
	embed func(s *Store, row *T, rel string)
	strip func(row *T)
}

// refTable is the type-erased view other tables use for reference checks.
type refTable interface {
	exists(id, owner string) bool
	clearRefs(target, id string)
}

type table[T any] struct {
	s     *Store
	c     codec[T]
	rows  map[string]*T
	order []string
}

func newTable[T any](s *Store, c codec[T]) *table[T] {
	return &table[T]{s: s, c: c, rows: make(map[string]*T)}
}

func (t *table[T]) name() string { return t.c.schema.Table }

func (t *table[T]) Select(ctx context.Context, q database.Query) ([]T, error) {
	if _, err := t.s.policy.Owner(ctx); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name(), err)
	}
	if err := t.c.schema.CheckQuery(q); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows := t.match(ctx, q.Filters)
	t.sort(rows, q.Order)
	rows = page(rows, q.Limit, q.Offset)

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = *r
		for _, rel := range q.Embed {
			t.c.embed(t.s, &out[i], rel)
		}
	}
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, id string, embed ...string) (*T, error) {
	if _, err := t.s.policy.Owner(ctx); err != nil {
		return nil, fmt.Errorf("get %s: %w", t.name(), err)
	}
	if err := t.c.schema.CheckQuery(database.Query{Embed: embed}); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	row := t.visible(ctx, id)
	if row == nil {
		return nil, fmt.Errorf("get %s %s: %w", t.name(), id, domain.ErrNotFound)
	}
	out := *row
	for _, rel := range embed {
		t.c.embed(t.s, &out, rel)
	}
	return &out, nil
}

func (t *table[T]) Count(ctx context.Context, q database.Query) (int64, error) {
	if _, err := t.s.policy.Owner(ctx); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name(), err)
	}
	if err := t.c.schema.CheckQuery(database.Query{Filters: q.Filters}); err != nil {
		return 0, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	return int64(len(t.match(ctx, q.Filters))), nil
}

func (t *table[T]) Insert(ctx context.Context, row T) (*T, error) {
	owner, err := t.s.policy.AuthorizeInsert(ctx, *t.c.owner(&row))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name(), err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	r := row
	t.c.strip(&r)
	*t.c.id(&r) = uuid.NewString()
	*t.c.owner(&r) = owner
	if err := t.c.check(&r); err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name(), err)
	}
	if err := t.checkRefs(&r, owner); err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name(), err)
	}
	t.c.stamp(&r, t.s.now(), true)

	stored := r
	t.rows[*t.c.id(&r)] = &stored
	t.order = append(t.order, *t.c.id(&r))
	return &r, nil
}

func (t *table[T]) Update(ctx context.Context, id string, changes domain.Changes) (*T, error) {
	owner, err := t.s.policy.Owner(ctx)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", t.name(), err)
	}
	if err := t.c.schema.CheckChanges(changes); err != nil {
		return nil, err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	row := t.visible(ctx, id)
	if row == nil {
		return nil, fmt.Errorf("update %s %s: %w", t.name(), id, domain.ErrNotFound)
	}
	r := *row
	for col, v := range changes {
		if err := t.c.set(&r, col, v); err != nil {
			return nil, fmt.Errorf("update %s: %w", t.name(), err)
		}
	}
	if err := t.c.check(&r); err != nil {
		return nil, fmt.Errorf("update %s: %w", t.name(), err)
	}
	if err := t.checkRefs(&r, owner); err != nil {
		return nil, fmt.Errorf("update %s: %w", t.name(), err)
	}
	t.c.stamp(&r, t.s.now(), false)

	*row = r
	return &r, nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	if _, err := t.s.policy.Owner(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", t.name(), err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.visible(ctx, id) == nil {
		return fmt.Errorf("delete %s %s: %w", t.name(), id, domain.ErrNotFound)
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	for _, other := range t.s.byName {
		other.clearRefs(t.name(), id)
	}
	return nil
}

// visible returns the stored row if the caller may see it. Callers hold the lock.
func (t *table[T]) visible(ctx context.Context, id string) *T {
	row, ok := t.rows[id]
	if !ok || !t.s.policy.Visible(ctx, *t.c.owner(row)) {
		return nil
	}
	return row
}

func (t *table[T]) match(ctx context.Context, filters []database.Filter) []*T {
	preds := make([]predicate, len(filters))
	for i, f := range filters {
		col, _ := t.c.schema.Column(f.Column)
		preds[i] = newPredicate(col, f)
	}

	var out []*T
	for _, id := range t.order {
		row := t.rows[id]
		if !t.s.policy.Visible(ctx, *t.c.owner(row)) {
			continue
		}
		ok := true
		for i := range preds {
			if !preds[i].match(t.c.field(row, preds[i].f.Column)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) sort(rows []*T, order []database.Order) {
	if len(order) == 0 {
		order = t.c.schema.DefaultOrder
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			a, b := t.c.field(rows[i], o.Column), t.c.field(rows[j], o.Column)
			switch {
			case a == nil && b == nil:
				continue
			case a == nil:
				return o.NullsFirst
			case b == nil:
				return !o.NullsFirst
			}
			c := compareForSort(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// checkRefs enforces that every non-null foreign key points at a row with
// the same owner.
func (t *table[T]) checkRefs(row *T, owner string) error {
	for _, rel := range t.c.schema.Relations {
		v := t.c.field(row, rel.Column)
		if v == nil {
			continue
		}
		target, ok := t.s.byName[rel.Table]
		if !ok || !target.exists(v.(string), owner) {
			return fmt.Errorf("referenced %s not found: %w", rel.Name, domain.ErrValidation)
		}
	}
	return nil
}

func (t *table[T]) exists(id, owner string) bool {
	row, ok := t.rows[id]
	return ok && *t.c.owner(row) == owner
}

func (t *table[T]) clearRefs(target, id string) {
	for _, rel := range t.c.schema.Relations {
		if rel.Table != target {
			continue
		}
		for _, row := range t.rows {
			if v, _ := t.c.field(row, rel.Column).(string); v == id {
				_ = t.c.set(row, rel.Column, nil)
			}
		}
	}
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
