// Package contact defines the Contact domain entity.
package contact

import (
	"strings"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/company"
)

// Column names.
const (
	ColID        = "id"
	ColUserID    = "user_id"
	ColCompanyID = "company_id"
	ColFirstName = "first_name"
	ColLastName  = "last_name"
	ColEmail     = "email"
	ColPhone     = "phone"
	ColTitle     = "title"
	ColNotes     = "notes"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// RelCompany is the embeddable company relation.
const RelCompany = "company"

// Contact is a person, optionally working for a company.
type Contact struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	CompanyID *string      `json:"company_id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Title     string       `json:"title"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Company   *company.Ref `json:"company,omitempty"`
}

// FullName returns "First Last".
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Matches reports whether the contact matches a case-insensitive search term
// on name, email or the embedded company name.
func (c *Contact) Matches(term string) bool {
	companyName := ""
	if c.Company != nil {
		companyName = c.Company.Name
	}
	return domain.ContainsFold(term, c.FirstName, c.LastName, c.FullName(), c.Email, companyName)
}

// Ref is the embedded form of a contact on dependent rows.
type Ref struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Input is the create/edit form for a contact.
type Input struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	CompanyID string `json:"company_id"`
}

// Validate checks required fields.
func (in Input) Validate() error {
	if err := domain.RequireText(ColFirstName, in.FirstName, 255); err != nil {
		return err
	}
	if err := domain.RequireText(ColLastName, in.LastName, 255); err != nil {
		return err
	}
	if err := domain.LimitText(ColEmail, in.Email, 320); err != nil {
		return err
	}
	if err := domain.LimitText(ColPhone, in.Phone, 100); err != nil {
		return err
	}
	if err := domain.LimitText(ColTitle, in.Title, 255); err != nil {
		return err
	}
	return domain.LimitText(ColNotes, in.Notes, 10000)
}

// Row builds a new, unsaved contact from the form.
func (in Input) Row() Contact {
	return Contact{
		CompanyID: domain.OptionalID(in.CompanyID),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Title:     strings.TrimSpace(in.Title),
		Notes:     in.Notes,
	}
}

// Changes returns every editable column for a full-form update.
func (in Input) Changes() domain.Changes {
	c := in.Row()
	return domain.Changes{
		ColCompanyID: c.CompanyID,
		ColFirstName: c.FirstName,
		ColLastName:  c.LastName,
		ColEmail:     c.Email,
		ColPhone:     c.Phone,
		ColTitle:     c.Title,
		ColNotes:     c.Notes,
	}
}
