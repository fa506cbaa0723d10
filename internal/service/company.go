package service

import (
	"context"

	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// CompanyService manages the companies screen.
type CompanyService struct {
	*EditableScreen[company.Company, company.Input]
}

// NewCompanyService creates a CompanyService.
func NewCompanyService(store database.Store, events *Events) *CompanyService {
	return &CompanyService{newEditableScreen[company.Company, company.Input](screenDef[company.Company]{
		entity: event.EntityCompany,
		id:     func(c *company.Company) string { return c.ID },
		match:  (*company.Company).Matches,
	}, store.Companies(), events)}
}

// View lists companies matching term on name, industry or email.
func (s *CompanyService) View(ctx context.Context, q database.Query, term string) (View[company.Company], error) {
	rows, err := s.List(ctx, q, term)
	if err != nil {
		return View[company.Company]{}, err
	}
	return NewView(rows), nil
}
