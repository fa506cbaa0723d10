package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

func TestParseQuery(t *testing.T) {
	params := url.Values{
		"order":      {"due_date.asc.nullsfirst,created_at.desc"},
		"select":     {"contact,deal"},
		"priority":   {"in.(high,medium)"},
		"contact_id": {"notnull"},
		"title":      {"ilike.*call*"},
		"limit":      {"20"},
		"offset":     {"40"},
		"q":          {"ignored by the gateway"},
		"status":     {"pending"},
	}
	q, err := parseQuery(params, &database.TaskSchema, "status")
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}

	if q.Limit != 20 || q.Offset != 40 {
		t.Errorf("limit/offset = %d/%d", q.Limit, q.Offset)
	}
	if len(q.Order) != 2 || !q.Order[0].NullsFirst || q.Order[0].Desc || !q.Order[1].Desc {
		t.Errorf("order = %+v", q.Order)
	}
	if len(q.Embed) != 2 || q.Embed[0] != "contact" || q.Embed[1] != "deal" {
		t.Errorf("embed = %v", q.Embed)
	}
	// Filters are sorted by column name.
	want := []database.Filter{
		{Column: "contact_id", Op: database.OpNotNull},
		{Column: "priority", Op: database.OpIn, Values: []string{"high", "medium"}},
		{Column: "title", Op: database.OpILike, Value: "*call*"},
	}
	if len(q.Filters) != len(want) {
		t.Fatalf("filters = %+v", q.Filters)
	}
	for i, f := range q.Filters {
		if fmt.Sprint(f) != fmt.Sprint(want[i]) {
			t.Errorf("filter %d = %+v, want %+v", i, f, want[i])
		}
	}
}

func TestParseQueryScreenParamInFilterForm(t *testing.T) {
	tests := []struct {
		raw        string
		wantFilter bool
		wantScreen string
	}{
		{"status=pending", false, "pending"},
		{"status=", false, ""},
		{"status=eq.pending", true, ""},
		{"status=in.(pending,completed)", true, ""},
	}
	for _, tt := range tests {
		params, _ := url.ParseQuery(tt.raw)
		q, err := parseQuery(params, &database.TaskSchema, "status")
		if err != nil {
			t.Errorf("%s: %v", tt.raw, err)
			continue
		}
		if got := len(q.Filters) == 1; got != tt.wantFilter {
			t.Errorf("%s: filters = %+v", tt.raw, q.Filters)
		}
		if got := screenValue(params, "status"); got != tt.wantScreen {
			t.Errorf("%s: screen value = %q, want %q", tt.raw, got, tt.wantScreen)
		}
	}
}

func TestParseQueryRejects(t *testing.T) {
	for _, raw := range []string{
		"order=value.sideways",
		"order=owner",
		"value=gte.abc",
		"stage=lead",
		"stage=in.()",
		"select=owner",
		"limit=5000",
		"offset=-1",
		"nosuchcolumn=eq.1",
	} {
		params, _ := url.ParseQuery(raw)
		if _, err := parseQuery(params, &database.DealSchema); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: want ErrValidation, got %v", raw, err)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := fmt.Errorf("create company: %w", fmt.Errorf("name is required: %w", domain.ErrValidation))
	if got := errorMessage(err, domain.ErrValidation); got != "name is required" {
		t.Errorf("got %q", got)
	}
	if got := errorMessage(domain.ErrUnauthenticated, domain.ErrUnauthenticated); got != "unauthenticated" {
		t.Errorf("bare sentinel: got %q", got)
	}
}

func TestWriteDomainErrorStatus(t *testing.T) {
	cases := map[error]int{
		domain.ErrConfirmationRequired: http.StatusPreconditionRequired,
		domain.ErrUnauthenticated:      http.StatusUnauthorized,
		domain.ErrForbidden:            http.StatusForbidden,
		domain.ErrNotFound:             http.StatusNotFound,
		domain.ErrConflict:             http.StatusConflict,
		domain.ErrImmutable:            http.StatusMethodNotAllowed,
		domain.ErrValidation:           http.StatusUnprocessableEntity,
		errors.New("boom"):             http.StatusInternalServerError,
	}
	for err, want := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(httptest.NewRequest(http.MethodGet, "/", http.NoBody), rec, fmt.Errorf("op: %w", err))
		if rec.Code != want {
			t.Errorf("%v: status = %d, want %d", err, rec.Code, want)
		}
	}
}
