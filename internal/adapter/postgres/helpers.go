package postgres

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Strob0t/CRMForge/internal/domain"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// PostgreSQL error codes mapped onto domain errors.
const (
	codeInsufficientPrivilege = "42501" // also raised by row-level security WITH CHECK failures
	codeForeignKeyViolation   = "23503"
	codeUniqueViolation       = "23505"
	codeCheckViolation        = "23514"
	codeNotNullViolation      = "23502"
	codeInvalidText           = "22P02"
	codeNumericOutOfRange     = "22003"
)

// mapError wraps err with the domain error matching its PostgreSQL code.
func mapError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	switch pgErr.Code {
	case codeInsufficientPrivilege:
		return fmt.Errorf("%s: %w", msg, domain.ErrForbidden)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: referenced %s not found: %w", msg, referencedName(pgErr.ConstraintName), domain.ErrValidation)
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	case codeCheckViolation, codeNotNullViolation, codeInvalidText, codeNumericOutOfRange:
		return fmt.Errorf("%s: %s: %w", msg, pgErr.Message, domain.ErrValidation)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// referencedName extracts "company" from a constraint named like
// "contacts_company_fk".
func referencedName(constraint string) string {
	parts := strings.Split(constraint, "_")
	if len(parts) >= 3 {
		return parts[len(parts)-2]
	}
	return "row"
}

// execExpectOne verifies that an Exec affected exactly one row. If not
// (and err is nil), it returns domain.ErrNotFound with the given message.
func execExpectOne(tag pgconn.CommandTag, err error, format string, args ...any) error {
	if err != nil {
		return mapError(err, format, args...)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(fmt.Sprintf(format, args...)+": %w", domain.ErrNotFound)
	}
	return nil
}

// pgValue unwraps named string types (enums) so pgx encodes them as text.
func pgValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String && rv.Type() != reflect.TypeOf("") {
		return rv.String()
	}
	return v
}

// orEmpty returns items unchanged if non-nil, or an empty slice if nil.
// Useful to ensure JSON serialization produces [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
