// Package task defines the Task domain entity.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
)

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Active reports whether the task still needs work.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// ParseStatus converts form input to a Status. Empty input yields StatusPending.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending, nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q: %w", s, domain.ErrValidation)
	}
	return st, nil
}

// Priority represents task urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ParsePriority converts form input to a Priority. Empty input yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: %w", s, domain.ErrValidation)
	}
	return p, nil
}

// Column names.
const (
	ColID          = "id"
	ColUserID      = "user_id"
	ColContactID   = "contact_id"
	ColCompanyID   = "company_id"
	ColDealID      = "deal_id"
	ColTitle       = "title"
	ColDescription = "description"
	ColDueDate     = "due_date"
	ColPriority    = "priority"
	ColStatus      = "status"
	ColCreatedAt   = "created_at"
	ColUpdatedAt   = "updated_at"
)

// Embeddable relations.
const (
	RelContact = "contact"
	RelCompany = "company"
	RelDeal    = "deal"
)

// Task is a to-do item, optionally linked to a contact, company and deal.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	ContactID   *string      `json:"contact_id"`
	CompanyID   *string      `json:"company_id"`
	DealID      *string      `json:"deal_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Priority    Priority     `json:"priority"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Contact     *contact.Ref `json:"contact,omitempty"`
	Company     *company.Ref `json:"company,omitempty"`
	Deal        *deal.Ref    `json:"deal,omitempty"`
}

// IsOverdue reports whether the task has a due date strictly before now and
// is not completed. It must be evaluated at render time, never cached.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// Matches reports whether the task matches a search term on title or description.
func (t *Task) Matches(term string) bool {
	return domain.ContainsFold(term, t.Title, t.Description)
}

// Item is a task as listed on screen, with its overdue flag evaluated at
// response time.
type Item struct {
	Task
	Overdue bool `json:"overdue"`
}

// Input is the create/edit form for a task.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	ContactID   string `json:"contact_id"`
	CompanyID   string `json:"company_id"`
	DealID      string `json:"deal_id"`
}

// Validate checks required fields and enumerations.
func (in Input) Validate() error {
	if err := domain.RequireText(ColTitle, in.Title, 255); err != nil {
		return err
	}
	if _, err := ParsePriority(in.Priority); err != nil {
		return err
	}
	if _, err := ParseStatus(in.Status); err != nil {
		return err
	}
	if _, err := domain.ParseTime(ColDueDate, in.DueDate); err != nil {
		return err
	}
	return domain.LimitText(ColDescription, in.Description, 10000)
}

// Row builds a new, unsaved task from a validated form.
func (in Input) Row() Task {
	priority, _ := ParsePriority(in.Priority)
	status, _ := ParseStatus(in.Status)
	due, _ := domain.ParseTime(ColDueDate, in.DueDate)
	return Task{
		ContactID:   domain.OptionalID(in.ContactID),
		CompanyID:   domain.OptionalID(in.CompanyID),
		DealID:      domain.OptionalID(in.DealID),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     due,
		Priority:    priority,
		Status:      status,
	}
}

// Changes returns every editable column for a full-form update.
func (in Input) Changes() domain.Changes {
	t := in.Row()
	return domain.Changes{
		ColContactID:   t.ContactID,
		ColCompanyID:   t.CompanyID,
		ColDealID:      t.DealID,
		ColTitle:       t.Title,
		ColDescription: t.Description,
		ColDueDate:     t.DueDate,
		ColPriority:    t.Priority,
		ColStatus:      t.Status,
	}
}

// StatusChange returns the changes for a quick status transition.
func StatusChange(s Status) domain.Changes {
	return domain.Changes{ColStatus: s}
}
