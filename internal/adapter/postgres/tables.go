package postgres

import (
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// --- Joins ---

func companyJoin[T any](set func(*T, *company.Ref)) join[T] {
	return join[T]{
		columns: []string{"id", "name"},
		dest: func(row *T) ([]any, func()) {
			var id, name *string
			return []any{&id, &name}, func() {
				if id != nil {
					set(row, &company.Ref{ID: *id, Name: *name})
				}
			}
		},
	}
}

func contactJoin[T any](set func(*T, *contact.Ref)) join[T] {
	return join[T]{
		columns: []string{"id", "first_name", "last_name"},
		dest: func(row *T) ([]any, func()) {
			var id, first, last *string
			return []any{&id, &first, &last}, func() {
				if id != nil {
					set(row, &contact.Ref{ID: *id, FirstName: *first, LastName: *last})
				}
			}
		},
	}
}

func dealJoin[T any](set func(*T, *deal.Ref)) join[T] {
	return join[T]{
		columns: []string{"id", "title"},
		dest: func(row *T) ([]any, func()) {
			var id, title *string
			return []any{&id, &title}, func() {
				if id != nil {
					set(row, &deal.Ref{ID: *id, Title: *title})
				}
			}
		},
	}
}

// --- Companies ---

var companyDef = tableDef[company.Company]{
	schema: &database.CompanySchema,
	columns: []string{
		"id", "user_id", "name", "industry", "website", "phone", "email", "address", "notes",
		"created_at", "updated_at",
	},
	dest: func(c *company.Company) []any {
		return []any{
			&c.ID, &c.UserID, &c.Name, &c.Industry, &c.Website, &c.Phone, &c.Email, &c.Address, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		}
	},
	values: func(c *company.Company) ([]string, []any) {
		return []string{"name", "industry", "website", "phone", "email", "address", "notes"},
			[]any{c.Name, c.Industry, c.Website, c.Phone, c.Email, c.Address, c.Notes}
	},
	owner: func(c *company.Company) string { return c.UserID },
	touch: true,
}

// --- Contacts ---

var contactDef = tableDef[contact.Contact]{
	schema: &database.ContactSchema,
	columns: []string{
		"id", "user_id", "company_id", "first_name", "last_name", "email", "phone", "title", "notes",
		"created_at", "updated_at",
	},
	dest: func(c *contact.Contact) []any {
		return []any{
			&c.ID, &c.UserID, &c.CompanyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Title, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		}
	},
	values: func(c *contact.Contact) ([]string, []any) {
		return []string{"company_id", "first_name", "last_name", "email", "phone", "title", "notes"},
			[]any{c.CompanyID, c.FirstName, c.LastName, c.Email, c.Phone, c.Title, c.Notes}
	},
	owner: func(c *contact.Contact) string { return c.UserID },
	joins: map[string]join[contact.Contact]{
		contact.RelCompany: companyJoin(func(c *contact.Contact, r *company.Ref) { c.Company = r }),
	},
	touch: true,
}

// --- Deals ---

var dealDef = tableDef[deal.Deal]{
	schema: &database.DealSchema,
	columns: []string{
		"id", "user_id", "company_id", "contact_id", "title", "value", "stage", "probability",
		"expected_close_date", "notes", "created_at", "updated_at",
	},
	dest: func(d *deal.Deal) []any {
		return []any{
			&d.ID, &d.UserID, &d.CompanyID, &d.ContactID, &d.Title, &d.Value, &d.Stage, &d.Probability,
			&d.ExpectedCloseDate, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		}
	},
	values: func(d *deal.Deal) ([]string, []any) {
		return []string{"company_id", "contact_id", "title", "value", "stage", "probability", "expected_close_date", "notes"},
			[]any{d.CompanyID, d.ContactID, d.Title, d.Value, d.Stage, d.Probability, d.ExpectedCloseDate, d.Notes}
	},
	owner: func(d *deal.Deal) string { return d.UserID },
	joins: map[string]join[deal.Deal]{
		deal.RelCompany: companyJoin(func(d *deal.Deal, r *company.Ref) { d.Company = r }),
		deal.RelContact: contactJoin(func(d *deal.Deal, r *contact.Ref) { d.Contact = r }),
	},
	touch: true,
}

// --- Tasks ---

var taskDef = tableDef[task.Task]{
	schema: &database.TaskSchema,
	columns: []string{
		"id", "user_id", "contact_id", "company_id", "deal_id", "title", "description", "due_date",
		"priority", "status", "created_at", "updated_at",
	},
	dest: func(t *task.Task) []any {
		return []any{
			&t.ID, &t.UserID, &t.ContactID, &t.CompanyID, &t.DealID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		}
	},
	values: func(t *task.Task) ([]string, []any) {
		return []string{"contact_id", "company_id", "deal_id", "title", "description", "due_date", "priority", "status"},
			[]any{t.ContactID, t.CompanyID, t.DealID, t.Title, t.Description, t.DueDate, t.Priority, t.Status}
	},
	owner: func(t *task.Task) string { return t.UserID },
	joins: map[string]join[task.Task]{
		task.RelContact: contactJoin(func(t *task.Task, r *contact.Ref) { t.Contact = r }),
		task.RelCompany: companyJoin(func(t *task.Task, r *company.Ref) { t.Company = r }),
		task.RelDeal:    dealJoin(func(t *task.Task, r *deal.Ref) { t.Deal = r }),
	},
	touch: true,
}

// --- Activities ---

var activityDef = tableDef[activity.Activity]{
	schema: &database.ActivitySchema,
	columns: []string{
		"id", "user_id", "contact_id", "company_id", "deal_id", "type", "subject", "description",
		"activity_date", "created_at",
	},
	dest: func(a *activity.Activity) []any {
		return []any{
			&a.ID, &a.UserID, &a.ContactID, &a.CompanyID, &a.DealID, &a.Type, &a.Subject, &a.Description,
			&a.ActivityDate, &a.CreatedAt,
		}
	},
	values: func(a *activity.Activity) ([]string, []any) {
		at := a.ActivityDate
		if at.IsZero() {
			at = time.Now().UTC()
		}
		return []string{"contact_id", "company_id", "deal_id", "type", "subject", "description", "activity_date"},
			[]any{a.ContactID, a.CompanyID, a.DealID, a.Type, a.Subject, a.Description, at}
	},
	owner: func(a *activity.Activity) string { return a.UserID },
	joins: map[string]join[activity.Activity]{
		activity.RelContact: contactJoin(func(a *activity.Activity, r *contact.Ref) { a.Contact = r }),
		activity.RelCompany: companyJoin(func(a *activity.Activity, r *company.Ref) { a.Company = r }),
		activity.RelDeal:    dealJoin(func(a *activity.Activity, r *deal.Ref) { a.Deal = r }),
	},
}
