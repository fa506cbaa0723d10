package database

import (
	"fmt"
	"strings"

	"github.com/Strob0t/CRMForge/internal/domain"
)

// Op is a filter operator.
type Op string

const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpILike   Op = "ilike"
	OpIn      Op = "in"
	OpIsNull  Op = "isnull"
	OpNotNull Op = "notnull"
)

// ParseOp validates an operator name.
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToLower(s)); op {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte, OpILike, OpIn, OpIsNull, OpNotNull:
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q: %w", s, domain.ErrValidation)
}

// Unary reports whether the operator takes no value.
func (o Op) Unary() bool { return o == OpIsNull || o == OpNotNull }

// Filter restricts a select to rows whose column satisfies the operator.
// Values are carried as text and converted to the column type by the adapter.
// OpIn uses Values; unary operators use neither field.
type Filter struct {
	Column string
	Op     Op
	Value  string
	Values []string
}

// Order sorts a select by one column.
type Order struct {
	Column     string
	Desc       bool
	NullsFirst bool
}

// Query describes a select. The zero value selects every visible row in the
// table's default order with no embedded relations.
type Query struct {
	Filters []Filter
	Order   []Order
	Embed   []string
	Limit   int
	Offset  int
}

// Where returns a copy of q with an added filter.
func (q Query) Where(column string, op Op, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Op: op, Value: value})
	return q
}

// WhereIn returns a copy of q with an added OpIn filter.
func (q Query) WhereIn(column string, values ...string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Op: OpIn, Values: values})
	return q
}

// OrderBy returns a copy of q with an added sort key.
func (q Query) OrderBy(column string, desc bool) Query {
	q.Order = append(append([]Order(nil), q.Order...), Order{Column: column, Desc: desc})
	return q
}

// With returns a copy of q embedding the named relations.
func (q Query) With(relations ...string) Query {
	q.Embed = append(append([]string(nil), q.Embed...), relations...)
	return q
}
