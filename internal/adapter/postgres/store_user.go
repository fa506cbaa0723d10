package postgres

import (
	"context"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/user"
)

// Users are not owner-scoped: login resolves them before any identity exists.

const userColumns = `id, email, name, password_hash, enabled, created_at, updated_at`

func scanUser(row scannable) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Enabled, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		u.Email, u.Name, u.PasswordHash, u.Enabled, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return mapError(err, "create user %s", u.Email)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id::text = $1`, id))
	if err != nil {
		return nil, mapError(err, "get user %s", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err, "get user by email %s", email)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapError(err, "list users")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err, "scan user")
		}
		users = append(users, u)
	}
	return orEmpty(users), rows.Err()
}
