package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// User is the identity context stamped onto created and imported
// records and used to scope tenant reads.
type User struct {
	ID          string `json:"id"`
	OrgID       string `json:"org_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// ErrUnauthorized means the presented token matched no live session.
var ErrUnauthorized = errors.New("invalid or expired session token")

// CurrentUser resolves a bearer token to its user.
func (s *Store) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT u.id::text, u.org_id::text, u.display_name, u.email
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now()`, token).
		Scan(&u.ID, &u.OrgID, &u.DisplayName, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return &u, nil
}

// UserByEmail finds a tenant member, e.g. to resolve an @mention.
func (s *Store) UserByEmail(ctx context.Context, orgID, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, org_id::text, display_name, email
		FROM users WHERE org_id = $1 AND email = $2`, orgID, email).
		Scan(&u.ID, &u.OrgID, &u.DisplayName, &u.Email)
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}

// OrgUsers lists the members of an organization, used to match
// @mentions against display names.
func (s *Store) OrgUsers(ctx context.Context, orgID string) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, org_id::text, display_name, email
		FROM users WHERE org_id = $1 ORDER BY display_name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("org users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.OrgID, &u.DisplayName, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
