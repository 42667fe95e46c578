// Package store is the Postgres record store: tenant-scoped contact
// CRUD with bulk insert, identity lookup, per-user column preferences
// and the secondary interaction/reminder/note entities.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Store wraps a connection pool with the application's queries.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the schema when it does not exist yet. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id       UUID NOT NULL REFERENCES organizations(id),
		display_name TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL UNIQUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id               UUID NOT NULL REFERENCES organizations(id),
		user_id              UUID REFERENCES users(id),
		prenom               TEXT NOT NULL DEFAULT '',
		nom                  TEXT NOT NULL DEFAULT '',
		societe              TEXT NOT NULL DEFAULT '',
		fonction             TEXT NOT NULL DEFAULT '',
		email                TEXT NOT NULL DEFAULT '',
		telephone            TEXT NOT NULL DEFAULT '',
		site_web             TEXT NOT NULL DEFAULT '',
		linkedin             TEXT NOT NULL DEFAULT '',
		statut               TEXT NOT NULL DEFAULT 'Prospect',
		source               TEXT NOT NULL DEFAULT 'Autre',
		temperature          TEXT NOT NULL DEFAULT 'Tiède',
		valeur_estimee       DOUBLE PRECISION NOT NULL DEFAULT 0,
		probabilite          DOUBLE PRECISION NOT NULL DEFAULT 0,
		date_cloture         DATE,
		adresse              TEXT NOT NULL DEFAULT '',
		notes                TEXT NOT NULL DEFAULT '',
		tags                 TEXT[] NOT NULL DEFAULT '{}',
		derniere_interaction TIMESTAMPTZ,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS contacts_org_updated_idx ON contacts (org_id, updated_at DESC)`,
	`CREATE TABLE IF NOT EXISTS user_prefs (
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		key        TEXT NOT NULL,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id     UUID NOT NULL REFERENCES organizations(id),
		contact_id UUID NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		user_id    UUID REFERENCES users(id),
		type       TEXT NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS rappels (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id     UUID NOT NULL REFERENCES organizations(id),
		contact_id UUID NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		user_id    UUID REFERENCES users(id),
		title      TEXT NOT NULL,
		due_at     TIMESTAMPTZ NOT NULL,
		done       BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS internal_notes (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id     UUID NOT NULL REFERENCES organizations(id),
		contact_id UUID NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		author_id  UUID REFERENCES users(id),
		body       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id     UUID NOT NULL REFERENCES organizations(id),
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_id UUID REFERENCES contacts(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		read_at    TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
