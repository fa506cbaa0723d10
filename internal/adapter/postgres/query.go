package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Strob0t/CRMForge/internal/port/database"
)

// sqlBuilder accumulates positional arguments while a statement is assembled.
type sqlBuilder struct {
	args []any
}

// arg appends v and returns its placeholder.
func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// param returns a placeholder for a textual value cast to the column type.
func (b *sqlBuilder) param(col database.Column, v string) string {
	p := b.arg(v)
	if col.Kind == database.KindText {
		return p
	}
	return p + "::text::" + col.Kind.SQLType()
}

// where renders the owner predicate followed by every filter, all on alias t.
func (b *sqlBuilder) where(schema *database.Schema, owner string, filters []database.Filter) string {
	clauses := []string{"t.user_id = " + b.arg(owner) + "::text::uuid"}
	for _, f := range filters {
		col, _ := schema.Column(f.Column)
		ref := "t." + col.Name
		switch f.Op {
		case database.OpIsNull:
			clauses = append(clauses, ref+" IS NULL")
		case database.OpNotNull:
			clauses = append(clauses, ref+" IS NOT NULL")
		case database.OpILike:
			clauses = append(clauses, ref+" ILIKE "+b.arg(f.Value))
		case database.OpIn:
			clauses = append(clauses, fmt.Sprintf("%s = ANY(%s::text[]::%s[])", ref, b.arg(f.Values), col.Kind.SQLType()))
		default:
			clauses = append(clauses, ref+" "+sqlOps[f.Op]+" "+b.param(col, f.Value))
		}
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

var sqlOps = map[database.Op]string{
	database.OpEq:  "=",
	database.OpNeq: "<>",
	database.OpLt:  "<",
	database.OpLte: "<=",
	database.OpGt:  ">",
	database.OpGte: ">=",
}

// orderBy renders the sort clause. Nulls sort last unless requested first;
// the primary key breaks ties so paging is stable. Text sorts case-folded and
// then by byte order, independent of the database collation, which is how the
// in-memory store orders rows too.
func orderBy(schema *database.Schema, order []database.Order) string {
	if len(order) == 0 {
		order = schema.DefaultOrder
	}
	parts := make([]string, 0, 2*len(order)+1)
	for _, o := range order {
		dir, nulls := "ASC", "NULLS LAST"
		if o.Desc {
			dir = "DESC"
		}
		if o.NullsFirst {
			nulls = "NULLS FIRST"
		}
		if col, ok := schema.Column(o.Column); ok && col.Kind == database.KindText {
			parts = append(parts,
				fmt.Sprintf(`lower(t.%s) COLLATE "C" %s %s`, o.Column, dir, nulls),
				fmt.Sprintf(`t.%s COLLATE "C" %s %s`, o.Column, dir, nulls))
			continue
		}
		parts = append(parts, fmt.Sprintf("t.%s %s %s", o.Column, dir, nulls))
	}
	parts = append(parts, "t.id")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *sqlBuilder) page(limit, offset int) string {
	var s string
	if limit > 0 {
		s += " LIMIT " + b.arg(limit)
	}
	if offset > 0 {
		s += " OFFSET " + b.arg(offset)
	}
	return s
}

// qualify prefixes every column with alias.
func qualify(alias string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}
