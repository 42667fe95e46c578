package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveColumnPrefs upserts a user's persisted preference document, e.g.
// the grid column layout under its fixed key. The payload is stored as
// the JSON it already is.
func (s *Store) SaveColumnPrefs(ctx context.Context, userID, key string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_prefs (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		userID, key, payload)
	if err != nil {
		return fmt.Errorf("save prefs %q: %w", key, err)
	}
	return nil
}

// LoadColumnPrefs returns the stored document, or ok=false when the
// user has never saved one (callers then fall back to defaults).
func (s *Store) LoadColumnPrefs(ctx context.Context, userID, key string) (payload []byte, ok bool, err error) {
	err = s.pool.QueryRow(ctx,
		"SELECT value FROM user_prefs WHERE user_id = $1 AND key = $2",
		userID, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load prefs %q: %w", key, err)
	}
	return payload, true, nil
}
