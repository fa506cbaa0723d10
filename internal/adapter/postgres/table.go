package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// tableDef maps an entity type onto its table.
type tableDef[T any] struct {
	schema *database.Schema
	// columns are selected in this order and scanned into dest.
	columns []string
	dest    func(*T) []any
	// values returns the insertable columns and their values, excluding
	// id, user_id and timestamps.
	values func(*T) ([]string, []any)
	owner  func(*T) string
	joins  map[string]join[T]
	// touch reports whether updates re-stamp updated_at.
	touch bool
}

// join embeds one referenced row through a LEFT JOIN on the composite key.
type join[T any] struct {
	columns []string
	// dest returns scan targets for columns and a func that assigns the
	// embedded value once the row has been scanned.
	dest func(*T) ([]any, func())
}

// table implements database.Table for one entity.
type table[T any] struct {
	s   *Store
	def *tableDef[T]
}

func (t *table[T]) name() string { return t.def.schema.Table }

// selectSQL renders the SELECT ... FROM ... JOIN part for the given embeds.
func (t *table[T]) selectSQL(embed []string) string {
	var cols, joins strings.Builder
	cols.WriteString(qualify("t", t.def.columns))
	for i, rel := range embed {
		r, _ := t.def.schema.Relation(rel)
		j := t.def.joins[rel]
		alias := fmt.Sprintf("j%d", i)
		cols.WriteString(", " + qualify(alias, j.columns))
		fmt.Fprintf(&joins, " LEFT JOIN %s %s ON %s.id = t.%s AND %s.user_id = t.user_id",
			r.Table, alias, alias, r.Column, alias)
	}
	return "SELECT " + cols.String() + " FROM " + t.name() + " t" + joins.String()
}

func (t *table[T]) scan(row scannable, embed []string) (T, error) {
	var v T
	dest := t.def.dest(&v)
	var after []func()
	for _, rel := range embed {
		d, fn := t.def.joins[rel].dest(&v)
		dest = append(dest, d...)
		after = append(after, fn)
	}
	if err := row.Scan(dest...); err != nil {
		return v, err
	}
	for _, fn := range after {
		fn()
	}
	return v, nil
}

func (t *table[T]) Select(ctx context.Context, q database.Query) ([]T, error) {
	if err := t.def.schema.CheckQuery(q); err != nil {
		return nil, err
	}

	var out []T
	err := t.s.scoped(ctx, func(tx pgx.Tx, owner string) error {
		var b sqlBuilder
		sql := t.selectSQL(q.Embed) +
			b.where(t.def.schema, owner, q.Filters) +
			orderBy(t.def.schema, q.Order) +
			b.page(q.Limit, q.Offset)

		rows, err := tx.Query(ctx, sql, b.args...)
		if err != nil {
			return mapError(err, "select %s", t.name())
		}
		defer rows.Close()

		for rows.Next() {
			v, err := t.scan(rows, q.Embed)
			if err != nil {
				return fmt.Errorf("scan %s: %w", t.name(), err)
			}
			out = append(out, v)
		}
		if err := rows.Err(); err != nil {
			return mapError(err, "select %s", t.name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (t *table[T]) Get(ctx context.Context, id string, embed ...string) (*T, error) {
	if err := t.def.schema.CheckQuery(database.Query{Embed: embed}); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", t.name(), id, domain.ErrNotFound)
	}

	var out T
	err := t.s.scoped(ctx, func(tx pgx.Tx, owner string) error {
		var b sqlBuilder
		where := b.where(t.def.schema, owner, []database.Filter{{Column: "id", Op: database.OpEq, Value: id}})
		v, err := t.scan(tx.QueryRow(ctx, t.selectSQL(embed)+where, b.args...), embed)
		if err != nil {
			return mapError(err, "get %s %s", t.name(), id)
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *table[T]) Count(ctx context.Context, q database.Query) (int64, error) {
	if err := t.def.schema.CheckQuery(database.Query{Filters: q.Filters}); err != nil {
		return 0, err
	}

	var n int64
	err := t.s.scoped(ctx, func(tx pgx.Tx, owner string) error {
		var b sqlBuilder
		sql := "SELECT count(*) FROM " + t.name() + " t" + b.where(t.def.schema, owner, q.Filters)
		if err := tx.QueryRow(ctx, sql, b.args...).Scan(&n); err != nil {
			return mapError(err, "count %s", t.name())
		}
		return nil
	})
	return n, err
}

func (t *table[T]) Insert(ctx context.Context, row T) (*T, error) {
	owner, err := t.s.policy.AuthorizeInsert(ctx, t.def.owner(&row))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name(), err)
	}

	cols, vals := t.def.values(&row)
	var b sqlBuilder
	names := append([]string{"user_id"}, cols...)
	placeholders := []string{b.arg(owner) + "::text::uuid"}
	for i, c := range cols {
		col, _ := t.def.schema.Column(c)
		p := b.arg(pgValue(vals[i]))
		if col.Kind == database.KindID {
			p += "::text::uuid"
		}
		placeholders = append(placeholders, p)
	}
	sql := fmt.Sprintf("INSERT INTO %s AS t (%s) VALUES (%s) RETURNING %s",
		t.name(), strings.Join(names, ", "), strings.Join(placeholders, ", "), qualify("t", t.def.columns))

	var out T
	err = t.s.scoped(ctx, func(tx pgx.Tx, _ string) error {
		v, err := t.scan(tx.QueryRow(ctx, sql, b.args...), nil)
		if err != nil {
			return mapError(err, "insert %s", t.name())
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *table[T]) Update(ctx context.Context, id string, changes domain.Changes) (*T, error) {
	if err := t.def.schema.CheckChanges(changes); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", t.name(), id, domain.ErrNotFound)
	}

	var out T
	err := t.s.scoped(ctx, func(tx pgx.Tx, owner string) error {
		var b sqlBuilder
		sets := make([]string, 0, len(changes)+1)
		for name, v := range changes {
			col, _ := t.def.schema.Column(name)
			p := b.arg(pgValue(v))
			if col.Kind == database.KindID {
				p += "::text::uuid"
			}
			sets = append(sets, name+" = "+p)
		}
		if t.def.touch {
			sets = append(sets, "updated_at = now()")
		}
		where := b.where(t.def.schema, owner, []database.Filter{{Column: "id", Op: database.OpEq, Value: id}})
		sql := fmt.Sprintf("UPDATE %s AS t SET %s%s RETURNING %s",
			t.name(), strings.Join(sets, ", "), where, qualify("t", t.def.columns))

		v, err := t.scan(tx.QueryRow(ctx, sql, b.args...), nil)
		if err != nil {
			return mapError(err, "update %s %s", t.name(), id)
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete %s %s: %w", t.name(), id, domain.ErrNotFound)
	}
	return t.s.scoped(ctx, func(tx pgx.Tx, owner string) error {
		var b sqlBuilder
		where := b.where(t.def.schema, owner, []database.Filter{{Column: "id", Op: database.OpEq, Value: id}})
		tag, err := tx.Exec(ctx, "DELETE FROM "+t.name()+" t"+where, b.args...)
		return execExpectOne(tag, err, "delete %s %s", t.name(), id)
	})
}
