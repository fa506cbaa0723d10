package memory

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// predicate is a filter prepared once per query: its operand is parsed and an
// ilike pattern compiled before any row is visited.
type predicate struct {
	f     database.Filter
	want  any
	wants []any
	re    *regexp.Regexp
	bad   bool // operand does not parse for the column kind; never matches
}

func newPredicate(col database.Column, f database.Filter) predicate {
	p := predicate{f: f}
	switch {
	case f.Op.Unary():
	case f.Op == database.OpILike:
		re, err := likePattern(f.Value)
		p.re, p.bad = re, err != nil
	case f.Op == database.OpIn:
		for _, raw := range f.Values {
			if v, err := database.ParseValue(col.Kind, raw); err == nil {
				p.wants = append(p.wants, v)
			}
		}
	default:
		v, err := database.ParseValue(col.Kind, f.Value)
		p.want, p.bad = v, err != nil
	}
	return p
}

// match evaluates the filter with SQL semantics: comparisons against a NULL
// value are never true.
func (p *predicate) match(v any) bool {
	switch p.f.Op {
	case database.OpIsNull:
		return v == nil
	case database.OpNotNull:
		return v != nil
	}
	if v == nil || p.bad {
		return false
	}
	switch p.f.Op {
	case database.OpILike:
		s, _ := v.(string)
		return p.re.MatchString(s)
	case database.OpIn:
		for _, want := range p.wants {
			if compare(v, want) == 0 {
				return true
			}
		}
		return false
	}

	c := compare(v, p.want)
	switch p.f.Op {
	case database.OpEq:
		return c == 0
	case database.OpNeq:
		return c != 0
	case database.OpLt:
		return c < 0
	case database.OpLte:
		return c <= 0
	case database.OpGt:
		return c > 0
	case database.OpGte:
		return c >= 0
	}
	return false
}

func compare(a, b any) int {
	switch x := a.(type) {
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	case float64:
		y, _ := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	}
	return 0
}

// compareForSort orders text case-insensitively, falling back to byte order.
func compareForSort(a, b any) int {
	if x, ok := a.(string); ok {
		y, _ := b.(string)
		if c := strings.Compare(strings.ToLower(x), strings.ToLower(y)); c != 0 {
			return c
		}
	}
	return compare(a, b)
}

// likePattern compiles a SQL ILIKE pattern (% and _ wildcards, backslash
// escape) into an anchored case-insensitive regexp.
func likePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(`.*`)
		case r == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return regexp.Compile(b.String())
}

// --- change value conversion ---

func textValue(col string, v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%s cannot be null: %w", col, domain.ErrValidation)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%s: expected text, got %T: %w", col, v, domain.ErrValidation)
}

func refValue(col string, v any) (*string, error) {
	var s string
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *string:
		if x == nil {
			return nil, nil
		}
		s = *x
	case string:
		s = x
	default:
		return nil, fmt.Errorf("%s: expected id, got %T: %w", col, v, domain.ErrValidation)
	}
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid id %q: %w", col, s, domain.ErrValidation)
	}
	out := id.String()
	return &out, nil
}

func floatValue(col string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return domain.Numeric(x).Float(0), nil
	case domain.Numeric:
		return x.Float(0), nil
	}
	return 0, fmt.Errorf("%s: expected number, got %T: %w", col, v, domain.ErrValidation)
}

func intValue(col string, v any) (int, error) {
	f, err := floatValue(col, v)
	return int(f), err
}

func timeValue(col string, v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		t := x.UTC()
		return &t, nil
	case time.Time:
		t := x.UTC()
		return &t, nil
	case string:
		return domain.ParseTime(col, x)
	}
	return nil, fmt.Errorf("%s: expected time, got %T: %w", col, v, domain.ErrValidation)
}

// optional returns the value of a nullable id column as any, nil when unset.
func optional(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func optionalTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func required(col, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required: %w", col, domain.ErrValidation)
	}
	return nil
}
