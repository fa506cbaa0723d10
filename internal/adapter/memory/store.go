// Package memory implements database.Store in process memory.
//
// It applies the same ownership rules as the PostgreSQL row-level security
// policies: every operation is scoped through an access.Policy, foreign keys
// must point at rows of the same owner, and deleting a referenced row nulls
// the references instead of cascading.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/domain/user"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// Store implements database.Store. All tables share one lock so that
// reference checks and null-on-delete see a consistent state.
type Store struct {
	mu     sync.RWMutex
	policy access.Policy
	now    func() time.Time

	users map[string]*user.User

	companies  *table[company.Company]
	contacts   *table[contact.Contact]
	deals      *table[deal.Deal]
	tasks      *table[task.Task]
	activities *table[activity.Activity]

	byName map[string]refTable
}

var _ database.Store = (*Store)(nil)

// New creates an empty store that scopes every operation with policy.
func New(policy access.Policy) *Store {
	s := &Store{
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		users:  make(map[string]*user.User),
	}
	s.companies = newTable(s, companyCodec)
	s.contacts = newTable(s, contactCodec)
	s.deals = newTable(s, dealCodec)
	s.tasks = newTable(s, taskCodec)
	s.activities = newTable(s, activityCodec)
	s.byName = map[string]refTable{
		database.TableCompanies:  s.companies,
		database.TableContacts:   s.contacts,
		database.TableDeals:      s.deals,
		database.TableTasks:      s.tasks,
		database.TableActivities: s.activities,
	}
	return s
}

// WithClock replaces the clock used to stamp created_at and updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Companies() database.Table[company.Company] { return s.companies }
func (s *Store) Contacts() database.Table[contact.Contact] { return s.contacts }
func (s *Store) Deals() database.Table[deal.Deal] { return s.deals }
func (s *Store) Tasks() database.Table[task.Task] { return s.tasks }
func (s *Store) Activities() database.Log[activity.Activity] { return s.activities }
func (s *Store) Ping(_ context.Context) error { return nil }

// --- Users ---

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrConflict)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email %s: %w", email, domain.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}
