// Package company defines the Company domain entity.
package company

import (
	"strings"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
)

// Column names, shared by the storage adapters and the HTTP query parser.
const (
	ColID        = "id"
	ColUserID    = "user_id"
	ColName      = "name"
	ColIndustry  = "industry"
	ColWebsite   = "website"
	ColPhone     = "phone"
	ColEmail     = "email"
	ColAddress   = "address"
	ColNotes     = "notes"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// Company is an organisation the user does business with.
type Company struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Website   string    `json:"website"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref is the embedded form of a company on dependent rows.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Input is the create/edit form for a company.
type Input struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// Validate checks required fields before anything is sent to storage.
func (in Input) Validate() error {
	if err := domain.RequireText(ColName, in.Name, 255); err != nil {
		return err
	}
	for field, v := range map[string]string{
		ColIndustry: in.Industry,
		ColWebsite:  in.Website,
		ColPhone:    in.Phone,
		ColEmail:    in.Email,
		ColAddress:  in.Address,
	} {
		if err := domain.LimitText(field, v, 500); err != nil {
			return err
		}
	}
	return domain.LimitText(ColNotes, in.Notes, 10000)
}

// Row builds a new, unsaved company from the form.
func (in Input) Row() Company {
	return Company{
		Name:     strings.TrimSpace(in.Name),
		Industry: strings.TrimSpace(in.Industry),
		Website:  strings.TrimSpace(in.Website),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		Address:  strings.TrimSpace(in.Address),
		Notes:    in.Notes,
	}
}

// Changes returns every editable column for a full-form update.
func (in Input) Changes() domain.Changes {
	c := in.Row()
	return domain.Changes{
		ColName:     c.Name,
		ColIndustry: c.Industry,
		ColWebsite:  c.Website,
		ColPhone:    c.Phone,
		ColEmail:    c.Email,
		ColAddress:  c.Address,
		ColNotes:    c.Notes,
	}
}

// Matches reports whether the company matches a case-insensitive search term
// on name, industry or email.
func (c *Company) Matches(term string) bool {
	return domain.ContainsFold(term, c.Name, c.Industry, c.Email)
}
