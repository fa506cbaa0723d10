// Package access defines the row-ownership policy every storage adapter consults.
//
// The storage layer (PostgreSQL row-level security) enforces the same rule on its
// own; this package makes the contract explicit and testable without a database.
package access

import (
	"context"
	"fmt"

	"github.com/Strob0t/CRMForge/internal/domain"
)

type ownerCtxKey struct{}

// WithOwner returns a context carrying the authenticated user's ID.
func WithOwner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, userID)
}

// OwnerFromContext returns the authenticated user's ID, or "" if none is set.
func OwnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerCtxKey{}).(string)
	return id
}

// Policy decides which rows a caller may see and write.
type Policy interface {
	// Owner returns the caller identity used to scope every statement.
	Owner(ctx context.Context) (string, error)

	// AuthorizeInsert returns the owner to stamp on a new row. An empty
	// rowOwner is replaced by the caller; any other value must match it.
	AuthorizeInsert(ctx context.Context, rowOwner string) (string, error)

	// Visible reports whether a row owned by rowOwner may be read, updated or
	// deleted by the caller.
	Visible(ctx context.Context, rowOwner string) bool
}

// OwnerPolicy grants access to rows whose owner equals the caller.
type OwnerPolicy struct{}

// Owner implements Policy.
func (OwnerPolicy) Owner(ctx context.Context) (string, error) {
	id := OwnerFromContext(ctx)
	if id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// AuthorizeInsert implements Policy.
func (p OwnerPolicy) AuthorizeInsert(ctx context.Context, rowOwner string) (string, error) {
	caller, err := p.Owner(ctx)
	if err != nil {
		return "", err
	}
	if rowOwner != "" && rowOwner != caller {
		return "", fmt.Errorf("insert for another user: %w", domain.ErrForbidden)
	}
	return caller, nil
}

// Visible implements Policy.
func (OwnerPolicy) Visible(ctx context.Context, rowOwner string) bool {
	caller := OwnerFromContext(ctx)
	return caller != "" && caller == rowOwner
}
