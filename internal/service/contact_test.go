package service

import (
	"errors"
	"testing"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

func TestContactService_EmbedsCompany(t *testing.T) {
	store := newStore()
	companies := NewCompanyService(store, nil)
	contacts := NewContactService(store, nil)
	ctx := ctxFor(userA)

	acme, err := companies.Create(ctx, company.Input{Name: "Acme"})
	mustOK(t, err)

	res, err := contacts.Create(ctx, contact.Input{FirstName: "Jane", LastName: "Doe", CompanyID: acme.Record.ID})
	mustOK(t, err)
	if res.Record.Company == nil || res.Record.Company.Name != "Acme" {
		t.Fatalf("created record company = %+v, want Acme", res.Record.Company)
	}
	if res.List[0].Company == nil || res.List[0].Company.Name != "Acme" {
		t.Fatalf("listed company = %+v, want Acme", res.List[0].Company)
	}
}

func TestContactService_SearchByCompanyName(t *testing.T) {
	store := newStore()
	companies := NewCompanyService(store, nil)
	contacts := NewContactService(store, nil)
	ctx := ctxFor(userA)

	acme, err := companies.Create(ctx, company.Input{Name: "Acme"})
	mustOK(t, err)
	_, err = contacts.Create(ctx, contact.Input{FirstName: "Jane", LastName: "Doe", CompanyID: acme.Record.ID})
	mustOK(t, err)
	_, err = contacts.Create(ctx, contact.Input{FirstName: "John", LastName: "Smith", Email: "john@example.com"})
	mustOK(t, err)

	for term, want := range map[string]int{"acme": 1, "JOHN@": 1, "jane doe": 1, "o": 2, "zzz": 0} {
		view, err := contacts.View(ctx, database.Query{}, term)
		mustOK(t, err)
		if view.Total != want {
			t.Errorf("search %q: got %d contacts, want %d", term, view.Total, want)
		}
	}
}

func TestContactService_RequiredNames(t *testing.T) {
	contacts := NewContactService(newStore(), nil)
	_, err := contacts.Create(ctxFor(userA), contact.Input{FirstName: "Jane"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestContactService_CrossOwnerCompanyRejected(t *testing.T) {
	store := newStore()
	companies := NewCompanyService(store, nil)
	contacts := NewContactService(store, nil)

	acme, err := companies.Create(ctxFor(userA), company.Input{Name: "Acme"})
	mustOK(t, err)

	_, err = contacts.Create(ctxFor(userB), contact.Input{FirstName: "Eve", LastName: "X", CompanyID: acme.Record.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
