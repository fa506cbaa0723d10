package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// Store implements database.Store using PostgreSQL.
//
// Every CRM statement runs in a transaction that first sets app.user_id, the
// setting the row-level security policies compare user_id against. Queries
// also carry an explicit user_id predicate, so a misconfigured role that
// bypasses RLS still cannot read across owners.
type Store struct {
	pool   *pgxpool.Pool
	policy access.Policy

	companies  *table[company.Company]
	contacts   *table[contact.Contact]
	deals      *table[deal.Deal]
	tasks      *table[task.Task]
	activities *table[activity.Activity]
}

var _ database.Store = (*Store)(nil)

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool, policy access.Policy) *Store {
	s := &Store{pool: pool, policy: policy}
	s.companies = &table[company.Company]{s: s, def: &companyDef}
	s.contacts = &table[contact.Contact]{s: s, def: &contactDef}
	s.deals = &table[deal.Deal]{s: s, def: &dealDef}
	s.tasks = &table[task.Task]{s: s, def: &taskDef}
	s.activities = &table[activity.Activity]{s: s, def: &activityDef}
	return s
}

func (s *Store) Companies() database.Table[company.Company] { return s.companies }
func (s *Store) Contacts() database.Table[contact.Contact] { return s.contacts }
func (s *Store) Deals() database.Table[deal.Deal] { return s.deals }
func (s *Store) Tasks() database.Table[task.Task] { return s.tasks }
func (s *Store) Activities() database.Log[activity.Activity] { return s.activities }

// Ping checks connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// scoped runs fn in a transaction bound to the caller's identity.
func (s *Store) scoped(ctx context.Context, fn func(tx pgx.Tx, owner string) error) error {
	owner, err := s.policy.Owner(ctx)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT set_config('app.user_id', $1, true)`, owner); err != nil {
			return fmt.Errorf("set owner: %w", err)
		}
		return fn(tx, owner)
	})
}
