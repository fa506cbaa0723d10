// Package deal defines the Deal domain entity and its sales pipeline stages.
package deal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
)

// Stage is the position of a deal in the sales pipeline.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed_won"
	StageClosedLost  Stage = "closed_lost"
)

// Stages lists every stage in board column order.
var Stages = []Stage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Valid reports whether s is one of the enumerated stages.
func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStage converts form input to a Stage. Empty input yields StageLead.
func ParseStage(s string) (Stage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StageLead, nil
	}
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid stage %q: %w", s, domain.ErrValidation)
	}
	return st, nil
}

// Column names.
const (
	ColID                = "id"
	ColUserID            = "user_id"
	ColCompanyID         = "company_id"
	ColContactID         = "contact_id"
	ColTitle             = "title"
	ColValue             = "value"
	ColStage             = "stage"
	ColProbability       = "probability"
	ColExpectedCloseDate = "expected_close_date"
	ColNotes             = "notes"
	ColCreatedAt         = "created_at"
	ColUpdatedAt         = "updated_at"
)

// Embeddable relations.
const (
	RelCompany = "company"
	RelContact = "contact"
)

// Probability bounds.
const (
	MinProbability = 0
	MaxProbability = 100
)

// MaxValue bounds the magnitude of a deal value. Values are stored as
// NUMERIC(14,2), so the largest storable magnitude is just below 1e12.
const MaxValue = 1e12

// RoundValue rounds v to cents.
func RoundValue(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckValue rejects a value the column cannot hold.
func CheckValue(v float64) error {
	if math.Abs(v) >= MaxValue {
		return fmt.Errorf("value must be less than %.0f: %w", MaxValue, domain.ErrValidation)
	}
	return nil
}

// Deal is a sales opportunity.
type Deal struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	CompanyID         *string      `json:"company_id"`
	ContactID         *string      `json:"contact_id"`
	Title             string       `json:"title"`
	Value             float64      `json:"value"`
	Stage             Stage        `json:"stage"`
	Probability       int          `json:"probability"`
	ExpectedCloseDate *time.Time   `json:"expected_close_date"`
	Notes             string       `json:"notes"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Company           *company.Ref `json:"company,omitempty"`
	Contact           *contact.Ref `json:"contact,omitempty"`
}

// Matches reports whether the deal matches a search term on title or company name.
func (d *Deal) Matches(term string) bool {
	companyName := ""
	if d.Company != nil {
		companyName = d.Company.Name
	}
	return domain.ContainsFold(term, d.Title, companyName)
}

// Ref is the embedded form of a deal on dependent rows.
type Ref struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ClampProbability bounds p to [MinProbability, MaxProbability].
func ClampProbability(p int) int {
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}

// Input is the create/edit form for a deal.
type Input struct {
	Title             string         `json:"title"`
	Value             domain.Numeric `json:"value"`
	Stage             string         `json:"stage"`
	Probability       domain.Numeric `json:"probability"`
	ExpectedCloseDate string         `json:"expected_close_date"`
	Notes             string         `json:"notes"`
	CompanyID         string         `json:"company_id"`
	ContactID         string         `json:"contact_id"`
}

// Validate checks required fields and enumerations. Unparsable numbers fall
// back to their defaults in Row; a parsed value too large to store is rejected.
func (in Input) Validate() error {
	if err := domain.RequireText(ColTitle, in.Title, 255); err != nil {
		return err
	}
	if err := CheckValue(RoundValue(in.Value.Float(0))); err != nil {
		return err
	}
	if _, err := ParseStage(in.Stage); err != nil {
		return err
	}
	if _, err := domain.ParseTime(ColExpectedCloseDate, in.ExpectedCloseDate); err != nil {
		return err
	}
	return domain.LimitText(ColNotes, in.Notes, 10000)
}

// Row builds a new, unsaved deal from a validated form.
func (in Input) Row() Deal {
	stage, _ := ParseStage(in.Stage)
	closeDate, _ := domain.ParseTime(ColExpectedCloseDate, in.ExpectedCloseDate)
	return Deal{
		CompanyID:         domain.OptionalID(in.CompanyID),
		ContactID:         domain.OptionalID(in.ContactID),
		Title:             strings.TrimSpace(in.Title),
		Value:             RoundValue(in.Value.Float(0)),
		Stage:             stage,
		Probability:       ClampProbability(in.Probability.Int(0)),
		ExpectedCloseDate: closeDate,
		Notes:             in.Notes,
	}
}

// Changes returns every editable column for a full-form update.
func (in Input) Changes() domain.Changes {
	d := in.Row()
	return domain.Changes{
		ColCompanyID:         d.CompanyID,
		ColContactID:         d.ContactID,
		ColTitle:             d.Title,
		ColValue:             d.Value,
		ColStage:             d.Stage,
		ColProbability:       d.Probability,
		ColExpectedCloseDate: d.ExpectedCloseDate,
		ColNotes:             d.Notes,
	}
}

// StageChange returns the changes for a quick stage transition.
func StageChange(s Stage) domain.Changes {
	return domain.Changes{ColStage: s}
}
