// Package database defines the data access gateway port (interface).
//
// Every operation is scoped to the identity carried by the context (see
// access.WithOwner). Rows owned by another user behave as if they did not
// exist: reads return nothing and writes report domain.ErrNotFound.
package database

import (
	"context"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/domain/user"
)

// Reader is the read side of a table.
type Reader[T any] interface {
	// Select returns the caller's rows matching q.
	Select(ctx context.Context, q Query) ([]T, error)
	// Get returns one row by id with the named relations embedded.
	Get(ctx context.Context, id string, embed ...string) (*T, error)
	// Count returns the number of the caller's rows matching q's filters.
	Count(ctx context.Context, q Query) (int64, error)
}

// Log is an append-only table: rows are inserted and deleted, never updated.
type Log[T any] interface {
	Reader[T]
	// Insert stores one row owned by the caller and returns it as stored.
	Insert(ctx context.Context, row T) (*T, error)
	// Delete removes one row by id.
	Delete(ctx context.Context, id string) error
}

// Table is a mutable table.
type Table[T any] interface {
	Log[T]
	// Update applies changes to one row by id, re-stamping updated_at, and
	// returns the row as stored.
	Update(ctx context.Context, id string, changes domain.Changes) (*T, error)
}

// Users manages accounts. Unlike the CRM tables it is not owner-scoped.
type Users interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// Store is the port interface for database operations.
type Store interface {
	Users

	Companies() Table[company.Company]
	Contacts() Table[contact.Contact]
	Deals() Table[deal.Deal]
	Tasks() Table[task.Task]
	Activities() Log[activity.Activity]

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
