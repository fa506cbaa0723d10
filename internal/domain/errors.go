// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist or is not visible
// to the caller. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the input failed domain validation.
var ErrValidation = errors.New("validation failed")

// ErrForbidden indicates a write carried an owner different from the caller.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a uniqueness constraint was violated.
var ErrConflict = errors.New("conflict: resource already exists")

// ErrUnauthenticated indicates no caller identity is available.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrConfirmationRequired is returned by destructive operations called without
// an explicit confirmation.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrImmutable indicates an attempt to modify an append-only record.
var ErrImmutable = errors.New("record is immutable")
