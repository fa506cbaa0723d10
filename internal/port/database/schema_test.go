package database

import (
	"errors"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
)

func TestCheckQueryRejectsUnknownColumn(t *testing.T) {
	q := Query{}.Where("password", OpEq, "x")
	if err := ContactSchema.CheckQuery(q); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckQueryRejectsUnknownRelation(t *testing.T) {
	q := Query{}.With("deal")
	if err := ContactSchema.CheckQuery(q); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckQueryValues(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"numeric ok", Query{}.Where(deal.ColValue, OpGte, "1000.50"), false},
		{"numeric bad", Query{}.Where(deal.ColValue, OpGte, "lots"), true},
		{"id ok", Query{}.Where(deal.ColCompanyID, OpEq, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"), false},
		{"id bad", Query{}.Where(deal.ColCompanyID, OpEq, "acme"), true},
		{"isnull ignores value", Query{}.Where(deal.ColCompanyID, OpIsNull, ""), false},
		{"in checks each", Query{}.WhereIn(deal.ColProbability, "10", "x"), true},
		{"ilike on number", Query{}.Where(deal.ColValue, OpILike, "%1%"), true},
		{"time ok", Query{}.Where(deal.ColExpectedCloseDate, OpLt, "2024-06-01"), false},
		{"bad op", Query{Filters: []Filter{{Column: deal.ColTitle, Op: "like", Value: "x"}}}, true},
		{"negative limit", Query{Limit: -1}, true},
		{"embed ok", Query{}.With(deal.RelCompany, deal.RelContact), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DealSchema.CheckQuery(tt.q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckChanges(t *testing.T) {
	if err := ContactSchema.CheckChanges(domain.Changes{contact.ColEmail: "a@b.c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ContactSchema.CheckChanges(domain.Changes{contact.ColUserID: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("user_id must not be editable, got %v", err)
	}
	if err := ContactSchema.CheckChanges(nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty changes should fail, got %v", err)
	}
	if err := ActivitySchema.CheckChanges(domain.Changes{"subject": "x"}); !errors.Is(err, domain.ErrImmutable) {
		t.Fatalf("activities must be immutable, got %v", err)
	}
}

func TestQueryBuildersDoNotAlias(t *testing.T) {
	base := Query{}.Where(deal.ColStage, OpEq, "lead")
	a := base.Where(deal.ColTitle, OpILike, "%a%")
	b := base.Where(deal.ColTitle, OpILike, "%b%")
	if len(base.Filters) != 1 || a.Filters[1].Value != "%a%" || b.Filters[1].Value != "%b%" {
		t.Fatalf("builders aliased filters: base=%v a=%v b=%v", base.Filters, a.Filters, b.Filters)
	}
}
