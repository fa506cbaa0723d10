// Package activity defines the append-only Activity log entry.
package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
)

// Type classifies an interaction.
type Type string

const (
	TypeCall    Type = "call"
	TypeEmail   Type = "email"
	TypeMeeting Type = "meeting"
	TypeNote    Type = "note"
)

// Types lists every activity type.
var Types = []Type{TypeCall, TypeEmail, TypeMeeting, TypeNote}

// Valid reports whether t is one of the enumerated types.
func (t Type) Valid() bool {
	switch t {
	case TypeCall, TypeEmail, TypeMeeting, TypeNote:
		return true
	}
	return false
}

// ParseType converts form input to a Type. Unlike the other enumerations the
// type has no default and must be supplied.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if t == "" {
		return "", fmt.Errorf("type is required: %w", domain.ErrValidation)
	}
	if !t.Valid() {
		return "", fmt.Errorf("invalid activity type %q: %w", s, domain.ErrValidation)
	}
	return t, nil
}

// Column names.
const (
	ColID           = "id"
	ColUserID       = "user_id"
	ColContactID    = "contact_id"
	ColCompanyID    = "company_id"
	ColDealID       = "deal_id"
	ColType         = "type"
	ColSubject      = "subject"
	ColDescription  = "description"
	ColActivityDate = "activity_date"
	ColCreatedAt    = "created_at"
)

// Embeddable relations.
const (
	RelContact = "contact"
	RelCompany = "company"
	RelDeal    = "deal"
)

// Activity is a timestamped interaction record. Activities have no
// updated_at: once written they are never modified.
type Activity struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	ContactID    *string      `json:"contact_id"`
	CompanyID    *string      `json:"company_id"`
	DealID       *string      `json:"deal_id"`
	Type         Type         `json:"type"`
	Subject      string       `json:"subject"`
	Description  string       `json:"description"`
	ActivityDate time.Time    `json:"activity_date"`
	CreatedAt    time.Time    `json:"created_at"`
	Contact      *contact.Ref `json:"contact,omitempty"`
	Company      *company.Ref `json:"company,omitempty"`
	Deal         *deal.Ref    `json:"deal,omitempty"`
}

// Matches reports whether the activity matches a search term on subject or description.
func (a *Activity) Matches(term string) bool {
	return domain.ContainsFold(term, a.Subject, a.Description)
}

// Input is the create form for an activity.
type Input struct {
	Type         string `json:"type"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	ActivityDate string `json:"activity_date"`
	ContactID    string `json:"contact_id"`
	CompanyID    string `json:"company_id"`
	DealID       string `json:"deal_id"`
}

// Validate checks required fields.
func (in Input) Validate() error {
	if _, err := ParseType(in.Type); err != nil {
		return err
	}
	if err := domain.RequireText(ColSubject, in.Subject, 255); err != nil {
		return err
	}
	if _, err := domain.ParseTime(ColActivityDate, in.ActivityDate); err != nil {
		return err
	}
	return domain.LimitText(ColDescription, in.Description, 10000)
}

// Row builds a new, unsaved activity from a validated form. A missing
// activity date defaults to the submission time.
func (in Input) Row() Activity {
	typ, _ := ParseType(in.Type)
	at := time.Now().UTC()
	if when, _ := domain.ParseTime(ColActivityDate, in.ActivityDate); when != nil {
		at = *when
	}
	return Activity{
		ContactID:    domain.OptionalID(in.ContactID),
		CompanyID:    domain.OptionalID(in.CompanyID),
		DealID:       domain.OptionalID(in.DealID),
		Type:         typ,
		Subject:      strings.TrimSpace(in.Subject),
		Description:  in.Description,
		ActivityDate: at,
	}
}

// Changes returns nil: activities have no update path.
func (in Input) Changes() domain.Changes {
	return nil
}
