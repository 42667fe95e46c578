package store

import (
	"context"
	"fmt"
	"time"
)

// Interaction is one logged contact touch (call, email, meeting...).
type Interaction struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contact_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Rappel is a scheduled follow-up on a contact.
type Rappel struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	DueAt     time.Time `json:"due_at"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// InternalNote is a team-visible annotation on a contact.
type InternalNote struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AddInteraction records a touch and bumps the contact's
// derniere_interaction stamp in the same transaction.
func (s *Store) AddInteraction(ctx context.Context, orgID string, in *Interaction) (*Interaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin interaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO interactions (org_id, contact_id, user_id, type, note, occurred_at)
		VALUES ($1, $2, NULLIF($3,'')::uuid, $4, $5, $6)
		RETURNING id::text, created_at`,
		orgID, in.ContactID, in.UserID, in.Type, in.Note, in.OccurredAt).
		Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add interaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE contacts SET derniere_interaction = $3, updated_at = now()
		WHERE id = $1 AND org_id = $2`,
		in.ContactID, orgID, in.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("stamp last interaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit interaction: %w", err)
	}
	return in, nil
}

// ListInteractions returns a contact's touches, most recent first.
func (s *Store) ListInteractions(ctx context.Context, orgID, contactID string) ([]Interaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, contact_id::text, COALESCE(user_id::text, ''), type, note, occurred_at, created_at
		FROM interactions WHERE org_id = $1 AND contact_id = $2
		ORDER BY occurred_at DESC`, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.ID, &in.ContactID, &in.UserID, &in.Type, &in.Note, &in.OccurredAt, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// AddRappel schedules a follow-up.
func (s *Store) AddRappel(ctx context.Context, orgID string, r *Rappel) (*Rappel, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO rappels (org_id, contact_id, user_id, title, due_at)
		VALUES ($1, $2, NULLIF($3,'')::uuid, $4, $5)
		RETURNING id::text, created_at`,
		orgID, r.ContactID, r.UserID, r.Title, r.DueAt).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add rappel: %w", err)
	}
	return r, nil
}

// ListRappels returns a contact's follow-ups, soonest due first.
func (s *Store) ListRappels(ctx context.Context, orgID, contactID string) ([]Rappel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, contact_id::text, COALESCE(user_id::text, ''), title, due_at, done, created_at
		FROM rappels WHERE org_id = $1 AND contact_id = $2
		ORDER BY due_at ASC`, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list rappels: %w", err)
	}
	defer rows.Close()

	var out []Rappel
	for rows.Next() {
		var r Rappel
		if err := rows.Scan(&r.ID, &r.ContactID, &r.UserID, &r.Title, &r.DueAt, &r.Done, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rappel: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompleteRappel marks a follow-up done.
func (s *Store) CompleteRappel(ctx context.Context, orgID, id string) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE rappels SET done = true WHERE id = $1 AND org_id = $2", id, orgID)
	if err != nil {
		return fmt.Errorf("complete rappel: %w", err)
	}
	return nil
}

// AddNote stores an internal note.
func (s *Store) AddNote(ctx context.Context, orgID string, n *InternalNote) (*InternalNote, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO internal_notes (org_id, contact_id, author_id, body)
		VALUES ($1, $2, NULLIF($3,'')::uuid, $4)
		RETURNING id::text, created_at`,
		orgID, n.ContactID, n.AuthorID, n.Body).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

// ListNotes returns a contact's internal notes, oldest first so the
// thread reads top to bottom.
func (s *Store) ListNotes(ctx context.Context, orgID, contactID string) ([]InternalNote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, contact_id::text, COALESCE(author_id::text, ''), body, created_at
		FROM internal_notes WHERE org_id = $1 AND contact_id = $2
		ORDER BY created_at ASC`, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var out []InternalNote
	for rows.Next() {
		var n InternalNote
		if err := rows.Scan(&n.ID, &n.ContactID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Notify records a notification row for one user; delivery is someone
// else's problem.
func (s *Store) Notify(ctx context.Context, orgID, userID, contactID, kind, body string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (org_id, user_id, contact_id, kind, body)
		VALUES ($1, $2, NULLIF($3,'')::uuid, $4, $5)`,
		orgID, userID, contactID, kind, body)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
