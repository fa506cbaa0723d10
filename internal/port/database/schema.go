package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindID
	KindNumeric
	KindInteger
	KindTime
)

// SQLType returns the PostgreSQL type name used when casting filter values.
func (k Kind) SQLType() string {
	switch k {
	case KindID:
		return "uuid"
	case KindNumeric:
		return "numeric"
	case KindInteger:
		return "integer"
	case KindTime:
		return "timestamptz"
	default:
		return "text"
	}
}

// Column describes one whitelisted column.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
	Editable bool
}

// Relation describes a one-level embed through a nullable foreign key.
type Relation struct {
	Name   string // embed name, e.g. "company"
	Column string // foreign key column on this table
	Table  string // referenced table
}

// Schema describes a table as exposed through the gateway.
type Schema struct {
	Table        string
	Columns      []Column
	Relations    []Relation
	DefaultOrder []Order
	Immutable    bool
}

// Column looks up a whitelisted column.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relation looks up an embeddable relation.
func (s *Schema) Relation(name string) (Relation, bool) {
	for _, r := range s.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// CheckQuery validates every column, operator, value and relation in q.
func (s *Schema) CheckQuery(q Query) error {
	for _, f := range q.Filters {
		col, ok := s.Column(f.Column)
		if !ok {
			return fmt.Errorf("%s: unknown column %q: %w", s.Table, f.Column, domain.ErrValidation)
		}
		if _, err := ParseOp(string(f.Op)); err != nil {
			return err
		}
		switch {
		case f.Op.Unary():
		case f.Op == OpIn:
			for _, v := range f.Values {
				if err := CheckValue(col, v); err != nil {
					return err
				}
			}
		case f.Op == OpILike:
			if col.Kind != KindText {
				return fmt.Errorf("%s: ilike on non-text column %q: %w", s.Table, col.Name, domain.ErrValidation)
			}
		default:
			if err := CheckValue(col, f.Value); err != nil {
				return err
			}
		}
	}
	for _, o := range q.Order {
		if _, ok := s.Column(o.Column); !ok {
			return fmt.Errorf("%s: unknown order column %q: %w", s.Table, o.Column, domain.ErrValidation)
		}
	}
	for _, e := range q.Embed {
		if _, ok := s.Relation(e); !ok {
			return fmt.Errorf("%s: unknown relation %q: %w", s.Table, e, domain.ErrValidation)
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("%s: negative limit or offset: %w", s.Table, domain.ErrValidation)
	}
	return nil
}

// CheckChanges validates that every key in ch is an editable column.
func (s *Schema) CheckChanges(ch domain.Changes) error {
	if s.Immutable {
		return fmt.Errorf("%s: %w", s.Table, domain.ErrImmutable)
	}
	if len(ch) == 0 {
		return fmt.Errorf("%s: no changes: %w", s.Table, domain.ErrValidation)
	}
	for name := range ch {
		col, ok := s.Column(name)
		if !ok || !col.Editable {
			return fmt.Errorf("%s: column %q is not editable: %w", s.Table, name, domain.ErrValidation)
		}
	}
	return nil
}

// CheckValue verifies a textual filter value converts to the column's kind.
func CheckValue(col Column, v string) error {
	if _, err := ParseValue(col.Kind, v); err != nil {
		return fmt.Errorf("column %q: %w", col.Name, err)
	}
	return nil
}

// ParseValue converts a textual filter value to the Go type of kind.
func ParseValue(kind Kind, v string) (any, error) {
	switch kind {
	case KindID:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", v, domain.ErrValidation)
		}
		return id.String(), nil
	case KindNumeric, KindInteger:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid number %q: %w", v, domain.ErrValidation)
		}
		return f, nil
	case KindTime:
		t, err := domain.ParseTime("value", v)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("empty time: %w", domain.ErrValidation)
		}
		return *t, nil
	default:
		return v, nil
	}
}

// Table names.
const (
	TableUsers      = "users"
	TableCompanies  = "companies"
	TableContacts   = "contacts"
	TableDeals      = "deals"
	TableTasks      = "tasks"
	TableActivities = "activities"
)

func idCol(name string) Column       { return Column{Name: name, Kind: KindID} }
func refCol(name string) Column      { return Column{Name: name, Kind: KindID, Nullable: true, Editable: true} }
func textCol(name string) Column     { return Column{Name: name, Kind: KindText, Editable: true} }
func stampCol(name string) Column    { return Column{Name: name, Kind: KindTime} }
func nullTimeCol(name string) Column { return Column{Name: name, Kind: KindTime, Nullable: true, Editable: true} }

// CompanySchema describes the companies table.
var CompanySchema = Schema{
	Table: TableCompanies,
	Columns: []Column{
		idCol(company.ColID), idCol(company.ColUserID),
		textCol(company.ColName), textCol(company.ColIndustry), textCol(company.ColWebsite),
		textCol(company.ColPhone), textCol(company.ColEmail), textCol(company.ColAddress),
		textCol(company.ColNotes),
		stampCol(company.ColCreatedAt), stampCol(company.ColUpdatedAt),
	},
	DefaultOrder: []Order{{Column: company.ColName}},
}

// ContactSchema describes the contacts table.
var ContactSchema = Schema{
	Table: TableContacts,
	Columns: []Column{
		idCol(contact.ColID), idCol(contact.ColUserID), refCol(contact.ColCompanyID),
		textCol(contact.ColFirstName), textCol(contact.ColLastName), textCol(contact.ColEmail),
		textCol(contact.ColPhone), textCol(contact.ColTitle), textCol(contact.ColNotes),
		stampCol(contact.ColCreatedAt), stampCol(contact.ColUpdatedAt),
	},
	Relations: []Relation{
		{Name: contact.RelCompany, Column: contact.ColCompanyID, Table: TableCompanies},
	},
	DefaultOrder: []Order{{Column: contact.ColLastName}, {Column: contact.ColFirstName}},
}

// DealSchema describes the deals table.
var DealSchema = Schema{
	Table: TableDeals,
	Columns: []Column{
		idCol(deal.ColID), idCol(deal.ColUserID),
		refCol(deal.ColCompanyID), refCol(deal.ColContactID),
		textCol(deal.ColTitle),
		{Name: deal.ColValue, Kind: KindNumeric, Editable: true},
		textCol(deal.ColStage),
		{Name: deal.ColProbability, Kind: KindInteger, Editable: true},
		nullTimeCol(deal.ColExpectedCloseDate),
		textCol(deal.ColNotes),
		stampCol(deal.ColCreatedAt), stampCol(deal.ColUpdatedAt),
	},
	Relations: []Relation{
		{Name: deal.RelCompany, Column: deal.ColCompanyID, Table: TableCompanies},
		{Name: deal.RelContact, Column: deal.ColContactID, Table: TableContacts},
	},
	DefaultOrder: []Order{{Column: deal.ColCreatedAt, Desc: true}},
}

// TaskSchema describes the tasks table.
var TaskSchema = Schema{
	Table: TableTasks,
	Columns: []Column{
		idCol(task.ColID), idCol(task.ColUserID),
		refCol(task.ColContactID), refCol(task.ColCompanyID), refCol(task.ColDealID),
		textCol(task.ColTitle), textCol(task.ColDescription),
		nullTimeCol(task.ColDueDate),
		textCol(task.ColPriority), textCol(task.ColStatus),
		stampCol(task.ColCreatedAt), stampCol(task.ColUpdatedAt),
	},
	Relations: []Relation{
		{Name: task.RelContact, Column: task.ColContactID, Table: TableContacts},
		{Name: task.RelCompany, Column: task.ColCompanyID, Table: TableCompanies},
		{Name: task.RelDeal, Column: task.ColDealID, Table: TableDeals},
	},
	DefaultOrder: []Order{{Column: task.ColDueDate}, {Column: task.ColCreatedAt, Desc: true}},
}

// ActivitySchema describes the append-only activities table.
var ActivitySchema = Schema{
	Table: TableActivities,
	Columns: []Column{
		idCol(activity.ColID), idCol(activity.ColUserID),
		refCol(activity.ColContactID), refCol(activity.ColCompanyID), refCol(activity.ColDealID),
		textCol(activity.ColType), textCol(activity.ColSubject), textCol(activity.ColDescription),
		stampCol(activity.ColActivityDate), stampCol(activity.ColCreatedAt),
	},
	Relations: []Relation{
		{Name: activity.RelContact, Column: activity.ColContactID, Table: TableContacts},
		{Name: activity.RelCompany, Column: activity.ColCompanyID, Table: TableCompanies},
		{Name: activity.RelDeal, Column: activity.ColDealID, Table: TableDeals},
	},
	DefaultOrder: []Order{{Column: activity.ColActivityDate, Desc: true}},
	Immutable:    true,
}
