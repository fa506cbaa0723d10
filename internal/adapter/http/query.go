package http

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

const maxLimit = 1000

// reservedParams are query parameters that are never column filters.
var reservedParams = map[string]bool{
	"q":       true,
	"order":   true,
	"select":  true,
	"limit":   true,
	"offset":  true,
	"confirm": true,
}

// parseQuery translates gateway query parameters into a database.Query:
//
//	?order=due_date.asc.nullslast,created_at.desc
//	?select=company,contact
//	?stage=eq.lead&value=gte.1000&contact_id=isnull
//	?stage=in.(lead,qualified)
//	?limit=20&offset=40
//
// screenParams names parameters the screen consumes itself when given a bare
// value (?status=pending); in op.value form (?status=eq.pending) they are
// ordinary column filters. The result is checked against the table schema.
func parseQuery(params url.Values, schema *database.Schema, screenParams ...string) (database.Query, error) {
	var q database.Query

	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxLimit {
			return q, fmt.Errorf("limit must be between 0 and %d: %w", maxLimit, domain.ErrValidation)
		}
		q.Limit = n
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, fmt.Errorf("offset must be a non-negative integer: %w", domain.ErrValidation)
		}
		q.Offset = n
	}
	if v := params.Get("order"); v != "" {
		for _, term := range strings.Split(v, ",") {
			o, err := parseOrder(term)
			if err != nil {
				return q, err
			}
			q.Order = append(q.Order, o)
		}
	}
	if v := params.Get("select"); v != "" {
		for _, rel := range strings.Split(v, ",") {
			if rel = strings.TrimSpace(rel); rel != "" {
				q.Embed = append(q.Embed, rel)
			}
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if reservedParams[k] {
			continue
		}
		if slices.Contains(screenParams, k) && !isFilterExpr(params.Get(k)) {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, col := range keys {
		for _, raw := range params[col] {
			f, err := parseFilter(col, raw)
			if err != nil {
				return q, err
			}
			q.Filters = append(q.Filters, f)
		}
	}

	if err := schema.CheckQuery(q); err != nil {
		return q, err
	}
	return q, nil
}

// screenValue returns the bare value of a screen parameter, or "" when it is
// absent or written as a gateway filter.
func screenValue(params url.Values, name string) string {
	v := params.Get(name)
	if v == "" || isFilterExpr(v) {
		return ""
	}
	return v
}

// isFilterExpr reports whether raw starts with a gateway operator.
func isFilterExpr(raw string) bool {
	name, _, _ := strings.Cut(raw, ".")
	_, err := database.ParseOp(name)
	return err == nil
}

// parseOrder parses "col[.asc|.desc][.nullsfirst|.nullslast]".
func parseOrder(term string) (database.Order, error) {
	parts := strings.Split(strings.TrimSpace(term), ".")
	o := database.Order{Column: parts[0]}
	for _, p := range parts[1:] {
		switch p {
		case "asc":
			o.Desc = false
		case "desc":
			o.Desc = true
		case "nullsfirst":
			o.NullsFirst = true
		case "nullslast":
			o.NullsFirst = false
		default:
			return o, fmt.Errorf("invalid order modifier %q: %w", p, domain.ErrValidation)
		}
	}
	if o.Column == "" {
		return o, fmt.Errorf("order column is required: %w", domain.ErrValidation)
	}
	return o, nil
}

// parseFilter parses "op.value", "in.(a,b)" or a bare unary operator.
func parseFilter(col, raw string) (database.Filter, error) {
	name, value, _ := strings.Cut(raw, ".")
	op, err := database.ParseOp(name)
	if err != nil {
		return database.Filter{}, fmt.Errorf("filter %s: expected op.value: %w", col, domain.ErrValidation)
	}
	f := database.Filter{Column: col, Op: op}
	switch {
	case op.Unary():
	case op == database.OpIn:
		value = strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
		if value == "" {
			return f, fmt.Errorf("filter %s: empty list: %w", col, domain.ErrValidation)
		}
		f.Values = strings.Split(value, ",")
	default:
		f.Value = value
	}
	return f, nil
}
