package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"crmgrid/internal/contact"
)

// Filter narrows a contact listing. Zero values impose no constraint;
// "tous" (the page's catch-all choice) is treated the same as empty.
type Filter struct {
	Status string
	Source string
	Search string
}

const contactColumns = `id::text, org_id::text, COALESCE(user_id::text, ''), prenom, nom, societe, fonction,
	email, telephone, site_web, linkedin, statut, source, temperature,
	valeur_estimee, probabilite, date_cloture, adresse, notes, tags,
	derniere_interaction, created_at, updated_at`

// List returns the tenant's contacts, optionally filtered, newest
// update first.
func (s *Store) List(ctx context.Context, orgID string, f Filter) ([]*contact.Contact, error) {
	where := []string{"org_id = $1"}
	args := []any{orgID}

	if f.Status != "" && f.Status != "tous" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("statut = $%d", len(args)))
	}
	if f.Source != "" && f.Source != "tous" {
		args = append(args, f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(prenom ILIKE $%d OR nom ILIKE $%d OR societe ILIKE $%d OR email ILIKE $%d)", n, n, n, n))
	}

	query := fmt.Sprintf("SELECT %s FROM contacts WHERE %s ORDER BY updated_at DESC",
		contactColumns, strings.Join(where, " AND "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []*contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetContact fetches one contact by id within the tenant.
func (s *Store) GetContact(ctx context.Context, orgID, id string) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1 AND org_id = $2", contactColumns),
		id, orgID)
	return scanContact(row)
}

// Create inserts one contact and returns it with store-assigned id and
// timestamps.
func (s *Store) Create(ctx context.Context, c *contact.Contact) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (
			org_id, user_id, prenom, nom, societe, fonction, email, telephone,
			site_web, linkedin, statut, source, temperature, valeur_estimee,
			probabilite, date_cloture, adresse, notes, tags, derniere_interaction
		) VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+contactColumns,
		c.OrgID, c.UserID, c.FirstName, c.LastName, c.Company, c.Role,
		c.Email, c.Phone, c.Website, c.LinkedIn, c.Status, c.Source,
		c.Temperature, c.EstimatedValue, c.Probability,
		nullTime(c.CloseDate), c.Address, c.Notes, c.Tags,
		nullTime(c.LastInteraction))
	created, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

// CreateBatch bulk-inserts contacts inside one transaction using the
// COPY protocol; either every row lands or none does.
func (s *Store) CreateBatch(ctx context.Context, contacts []*contact.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	cols := []string{
		"org_id", "user_id", "prenom", "nom", "societe", "fonction", "email",
		"telephone", "site_web", "linkedin", "statut", "source", "temperature",
		"valeur_estimee", "probabilite", "adresse", "notes",
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"contacts"}, cols,
		pgx.CopyFromSlice(len(contacts), func(i int) ([]any, error) {
			c := contacts[i]
			c.ApplyDefaults()
			return []any{
				c.OrgID, nullStr(c.UserID), c.FirstName, c.LastName, c.Company,
				c.Role, c.Email, c.Phone, c.Website, c.LinkedIn, c.Status,
				c.Source, c.Temperature, c.EstimatedValue, c.Probability,
				c.Address, c.Notes,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("bulk insert contacts: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}
	return nil
}

// Update applies a partial update by field id. Values are coerced
// through the contact schema, so numeric fields accept strings and
// date fields accept YYYY-MM-DD.
func (s *Store) Update(ctx context.Context, orgID, id string, fields map[string]any) (*contact.Contact, error) {
	if len(fields) == 0 {
		return s.GetContact(ctx, orgID, id)
	}

	set := []string{}
	args := []any{id, orgID}
	for field, value := range fields {
		var tmp contact.Contact
		if err := tmp.Set(field, value); err != nil {
			return nil, err
		}
		v, _ := tmp.Get(field)
		if t, ok := v.(time.Time); ok {
			v = nullTime(t)
		}
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", pgx.Identifier{field}.Sanitize(), len(args)))
	}
	set = append(set, "updated_at = now()")

	row := s.pool.QueryRow(ctx, fmt.Sprintf(
		"UPDATE contacts SET %s WHERE id = $1 AND org_id = $2 RETURNING %s",
		strings.Join(set, ", "), contactColumns), args...)
	updated, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

// Delete hard-deletes a contact. Deleting a contact that is already
// gone is not an error.
func (s *Store) Delete(ctx context.Context, orgID, id string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM contacts WHERE id = $1 AND org_id = $2", id, orgID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func scanContact(row pgx.Row) (*contact.Contact, error) {
	var c contact.Contact
	var closeDate, lastInteraction *time.Time
	err := row.Scan(
		&c.ID, &c.OrgID, &c.UserID, &c.FirstName, &c.LastName, &c.Company,
		&c.Role, &c.Email, &c.Phone, &c.Website, &c.LinkedIn, &c.Status,
		&c.Source, &c.Temperature, &c.EstimatedValue, &c.Probability,
		&closeDate, &c.Address, &c.Notes, &c.Tags, &lastInteraction,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	if closeDate != nil {
		c.CloseDate = *closeDate
	}
	if lastInteraction != nil {
		c.LastInteraction = *lastInteraction
	}
	return &c, nil
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// nullStr maps "" to NULL for nullable uuid columns.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
