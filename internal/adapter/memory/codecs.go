package memory

import (
	"fmt"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

func unknownColumn(table, col string) error {
	return fmt.Errorf("%s: unknown column %q: %w", table, col, domain.ErrValidation)
}

// --- Ref lookups; callers hold the store lock ---

func (s *Store) companyRef(id *string) *company.Ref {
	if id == nil {
		return nil
	}
	c, ok := s.companies.rows[*id]
	if !ok {
		return nil
	}
	return &company.Ref{ID: c.ID, Name: c.Name}
}

func (s *Store) contactRef(id *string) *contact.Ref {
	if id == nil {
		return nil
	}
	c, ok := s.contacts.rows[*id]
	if !ok {
		return nil
	}
	return &contact.Ref{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName}
}

func (s *Store) dealRef(id *string) *deal.Ref {
	if id == nil {
		return nil
	}
	d, ok := s.deals.rows[*id]
	if !ok {
		return nil
	}
	return &deal.Ref{ID: d.ID, Title: d.Title}
}

// --- Company ---

var companyCodec = codec[company.Company]{
	schema: &database.CompanySchema,
	id:     func(c *company.Company) *string { return &c.ID },
	owner:  func(c *company.Company) *string { return &c.UserID },
	stamp: func(c *company.Company, now time.Time, insert bool) {
		if insert {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
	},
	field: func(c *company.Company, col string) any {
		switch col {
		case company.ColID:
			return c.ID
		case company.ColUserID:
			return c.UserID
		case company.ColName:
			return c.Name
		case company.ColIndustry:
			return c.Industry
		case company.ColWebsite:
			return c.Website
		case company.ColPhone:
			return c.Phone
		case company.ColEmail:
			return c.Email
		case company.ColAddress:
			return c.Address
		case company.ColNotes:
			return c.Notes
		case company.ColCreatedAt:
			return c.CreatedAt
		case company.ColUpdatedAt:
			return c.UpdatedAt
		}
		return nil
	},
	set: func(c *company.Company, col string, v any) error {
		var dst *string
		switch col {
		case company.ColName:
			dst = &c.Name
		case company.ColIndustry:
			dst = &c.Industry
		case company.ColWebsite:
			dst = &c.Website
		case company.ColPhone:
			dst = &c.Phone
		case company.ColEmail:
			dst = &c.Email
		case company.ColAddress:
			dst = &c.Address
		case company.ColNotes:
			dst = &c.Notes
		default:
			return unknownColumn(database.TableCompanies, col)
		}
		s, err := textValue(col, v)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	},
	check: func(c *company.Company) error { return required(company.ColName, c.Name) },
	embed: func(*Store, *company.Company, string) {},
	strip: func(*company.Company) {},
}

// --- Contact ---

var contactCodec = codec[contact.Contact]{
	schema: &database.ContactSchema,
	id:     func(c *contact.Contact) *string { return &c.ID },
	owner:  func(c *contact.Contact) *string { return &c.UserID },
	stamp: func(c *contact.Contact, now time.Time, insert bool) {
		if insert {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
	},
	field: func(c *contact.Contact, col string) any {
		switch col {
		case contact.ColID:
			return c.ID
		case contact.ColUserID:
			return c.UserID
		case contact.ColCompanyID:
			return optional(c.CompanyID)
		case contact.ColFirstName:
			return c.FirstName
		case contact.ColLastName:
			return c.LastName
		case contact.ColEmail:
			return c.Email
		case contact.ColPhone:
			return c.Phone
		case contact.ColTitle:
			return c.Title
		case contact.ColNotes:
			return c.Notes
		case contact.ColCreatedAt:
			return c.CreatedAt
		case contact.ColUpdatedAt:
			return c.UpdatedAt
		}
		return nil
	},
	set: func(c *contact.Contact, col string, v any) error {
		if col == contact.ColCompanyID {
			id, err := refValue(col, v)
			if err != nil {
				return err
			}
			c.CompanyID = id
			return nil
		}
		var dst *string
		switch col {
		case contact.ColFirstName:
			dst = &c.FirstName
		case contact.ColLastName:
			dst = &c.LastName
		case contact.ColEmail:
			dst = &c.Email
		case contact.ColPhone:
			dst = &c.Phone
		case contact.ColTitle:
			dst = &c.Title
		case contact.ColNotes:
			dst = &c.Notes
		default:
			return unknownColumn(database.TableContacts, col)
		}
		s, err := textValue(col, v)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	},
	check: func(c *contact.Contact) error {
		if err := required(contact.ColFirstName, c.FirstName); err != nil {
			return err
		}
		return required(contact.ColLastName, c.LastName)
	},
	embed: func(s *Store, c *contact.Contact, rel string) {
		if rel == contact.RelCompany {
			c.Company = s.companyRef(c.CompanyID)
		}
	},
	strip: func(c *contact.Contact) { c.Company = nil },
}

// --- Deal ---

var dealCodec = codec[deal.Deal]{
	schema: &database.DealSchema,
	id:     func(d *deal.Deal) *string { return &d.ID },
	owner:  func(d *deal.Deal) *string { return &d.UserID },
	stamp: func(d *deal.Deal, now time.Time, insert bool) {
		if insert {
			d.CreatedAt = now
		}
		d.UpdatedAt = now
		d.Value = deal.RoundValue(d.Value) // stored to the cent, like NUMERIC(14,2)
	},
	field: func(d *deal.Deal, col string) any {
		switch col {
		case deal.ColID:
			return d.ID
		case deal.ColUserID:
			return d.UserID
		case deal.ColCompanyID:
			return optional(d.CompanyID)
		case deal.ColContactID:
			return optional(d.ContactID)
		case deal.ColTitle:
			return d.Title
		case deal.ColValue:
			return d.Value
		case deal.ColStage:
			return string(d.Stage)
		case deal.ColProbability:
			return float64(d.Probability)
		case deal.ColExpectedCloseDate:
			return optionalTime(d.ExpectedCloseDate)
		case deal.ColNotes:
			return d.Notes
		case deal.ColCreatedAt:
			return d.CreatedAt
		case deal.ColUpdatedAt:
			return d.UpdatedAt
		}
		return nil
	},
	set: func(d *deal.Deal, col string, v any) error {
		var err error
		switch col {
		case deal.ColCompanyID:
			d.CompanyID, err = refValue(col, v)
		case deal.ColContactID:
			d.ContactID, err = refValue(col, v)
		case deal.ColTitle:
			d.Title, err = textValue(col, v)
		case deal.ColValue:
			d.Value, err = floatValue(col, v)
		case deal.ColStage:
			var s string
			s, err = textValue(col, v)
			d.Stage = deal.Stage(s)
		case deal.ColProbability:
			d.Probability, err = intValue(col, v)
		case deal.ColExpectedCloseDate:
			d.ExpectedCloseDate, err = timeValue(col, v)
		case deal.ColNotes:
			d.Notes, err = textValue(col, v)
		default:
			return unknownColumn(database.TableDeals, col)
		}
		return err
	},
	check: func(d *deal.Deal) error {
		if err := required(deal.ColTitle, d.Title); err != nil {
			return err
		}
		if !d.Stage.Valid() {
			return fmt.Errorf("invalid stage %q: %w", d.Stage, domain.ErrValidation)
		}
		if d.Probability < deal.MinProbability || d.Probability > deal.MaxProbability {
			return fmt.Errorf("probability %d out of range: %w", d.Probability, domain.ErrValidation)
		}
		return deal.CheckValue(deal.RoundValue(d.Value))
	},
	embed: func(s *Store, d *deal.Deal, rel string) {
		switch rel {
		case deal.RelCompany:
			d.Company = s.companyRef(d.CompanyID)
		case deal.RelContact:
			d.Contact = s.contactRef(d.ContactID)
		}
	},
	strip: func(d *deal.Deal) { d.Company, d.Contact = nil, nil },
}

// --- Task ---

var taskCodec = codec[task.Task]{
	schema: &database.TaskSchema,
	id:     func(t *task.Task) *string { return &t.ID },
	owner:  func(t *task.Task) *string { return &t.UserID },
	stamp: func(t *task.Task, now time.Time, insert bool) {
		if insert {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
	},
	field: func(t *task.Task, col string) any {
		switch col {
		case task.ColID:
			return t.ID
		case task.ColUserID:
			return t.UserID
		case task.ColContactID:
			return optional(t.ContactID)
		case task.ColCompanyID:
			return optional(t.CompanyID)
		case task.ColDealID:
			return optional(t.DealID)
		case task.ColTitle:
			return t.Title
		case task.ColDescription:
			return t.Description
		case task.ColDueDate:
			return optionalTime(t.DueDate)
		case task.ColPriority:
			return string(t.Priority)
		case task.ColStatus:
			return string(t.Status)
		case task.ColCreatedAt:
			return t.CreatedAt
		case task.ColUpdatedAt:
			return t.UpdatedAt
		}
		return nil
	},
	set: func(t *task.Task, col string, v any) error {
		var (
			s   string
			err error
		)
		switch col {
		case task.ColContactID:
			t.ContactID, err = refValue(col, v)
		case task.ColCompanyID:
			t.CompanyID, err = refValue(col, v)
		case task.ColDealID:
			t.DealID, err = refValue(col, v)
		case task.ColTitle:
			t.Title, err = textValue(col, v)
		case task.ColDescription:
			t.Description, err = textValue(col, v)
		case task.ColDueDate:
			t.DueDate, err = timeValue(col, v)
		case task.ColPriority:
			s, err = textValue(col, v)
			t.Priority = task.Priority(s)
		case task.ColStatus:
			s, err = textValue(col, v)
			t.Status = task.Status(s)
		default:
			return unknownColumn(database.TableTasks, col)
		}
		return err
	},
	check: func(t *task.Task) error {
		if err := required(task.ColTitle, t.Title); err != nil {
			return err
		}
		if !t.Priority.Valid() {
			return fmt.Errorf("invalid priority %q: %w", t.Priority, domain.ErrValidation)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("invalid status %q: %w", t.Status, domain.ErrValidation)
		}
		return nil
	},
	embed: func(s *Store, t *task.Task, rel string) {
		switch rel {
		case task.RelContact:
			t.Contact = s.contactRef(t.ContactID)
		case task.RelCompany:
			t.Company = s.companyRef(t.CompanyID)
		case task.RelDeal:
			t.Deal = s.dealRef(t.DealID)
		}
	},
	strip: func(t *task.Task) { t.Contact, t.Company, t.Deal = nil, nil, nil },
}

// --- Activity ---

var activityCodec = codec[activity.Activity]{
	schema: &database.ActivitySchema,
	id:     func(a *activity.Activity) *string { return &a.ID },
	owner:  func(a *activity.Activity) *string { return &a.UserID },
	stamp: func(a *activity.Activity, now time.Time, insert bool) {
		if insert {
			a.CreatedAt = now
			if a.ActivityDate.IsZero() {
				a.ActivityDate = now
			}
		}
	},
	field: func(a *activity.Activity, col string) any {
		switch col {
		case activity.ColID:
			return a.ID
		case activity.ColUserID:
			return a.UserID
		case activity.ColContactID:
			return optional(a.ContactID)
		case activity.ColCompanyID:
			return optional(a.CompanyID)
		case activity.ColDealID:
			return optional(a.DealID)
		case activity.ColType:
			return string(a.Type)
		case activity.ColSubject:
			return a.Subject
		case activity.ColDescription:
			return a.Description
		case activity.ColActivityDate:
			return a.ActivityDate
		case activity.ColCreatedAt:
			return a.CreatedAt
		}
		return nil
	},
	// set only serves null-on-delete of references; the gateway rejects
	// every other activity update before it reaches the codec.
	set: func(a *activity.Activity, col string, v any) error {
		var err error
		switch col {
		case activity.ColContactID:
			a.ContactID, err = refValue(col, v)
		case activity.ColCompanyID:
			a.CompanyID, err = refValue(col, v)
		case activity.ColDealID:
			a.DealID, err = refValue(col, v)
		default:
			return fmt.Errorf("%s: %w", database.TableActivities, domain.ErrImmutable)
		}
		return err
	},
	check: func(a *activity.Activity) error {
		if !a.Type.Valid() {
			return fmt.Errorf("invalid activity type %q: %w", a.Type, domain.ErrValidation)
		}
		return required(activity.ColSubject, a.Subject)
	},
	embed: func(s *Store, a *activity.Activity, rel string) {
		switch rel {
		case activity.RelContact:
			a.Contact = s.contactRef(a.ContactID)
		case activity.RelCompany:
			a.Company = s.companyRef(a.CompanyID)
		case activity.RelDeal:
			a.Deal = s.dealRef(a.DealID)
		}
	},
	strip: func(a *activity.Activity) { a.Contact, a.Company, a.Deal = nil, nil, nil },
}
