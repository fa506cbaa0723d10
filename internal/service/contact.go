package service

import (
	"context"

	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// ContactService manages the contacts screen. Contacts are listed with
// their company embedded.
type ContactService struct {
	*EditableScreen[contact.Contact, contact.Input]
}

// NewContactService creates a ContactService.
func NewContactService(store database.Store, events *Events) *ContactService {
	return &ContactService{newEditableScreen[contact.Contact, contact.Input](screenDef[contact.Contact]{
		entity: event.EntityContact,
		embed:  []string{contact.RelCompany},
		id:     func(c *contact.Contact) string { return c.ID },
		match:  (*contact.Contact).Matches,
	}, store.Contacts(), events)}
}

// View lists contacts matching term on name, email or company name.
func (s *ContactService) View(ctx context.Context, q database.Query, term string) (View[contact.Contact], error) {
	rows, err := s.List(ctx, q, term)
	if err != nil {
		return View[contact.Contact]{}, err
	}
	return NewView(rows), nil
}
