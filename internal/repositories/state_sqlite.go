package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytimport/internal/models"
)

// SQLiteStateStore keeps the sync state in the sync_state and resolved_tracks tables.
type SQLiteStateStore struct {
	db *sql.DB
}

// NewSQLiteStateStore creates a store over a migrated database.
func NewSQLiteStateStore(db *sql.DB) *SQLiteStateStore {
	return &SQLiteStateStore{db: db}
}

// Load reads the header row and every resolved key. An empty database yields an empty state.
func (s *SQLiteStateStore) Load(ctx context.Context) (*models.SyncState, error) {
	state := models.NewSyncState()

	var version sql.NullInt64
	var collectionID, collectionName sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT schema_version, collection_id, collection_name FROM sync_state WHERE id = 1",
	).Scan(&version, &collectionID, &collectionName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	default:
		state.SchemaVersion = int(version.Int64)
		state.CollectionID = collectionID.String
		state.CollectionName = collectionName.String
	}

	rows, err := s.db.QueryContext(ctx, "SELECT stable_key, external_id FROM resolved_tracks")
	if err != nil {
		return nil, fmt.Errorf("failed to query resolved tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, externalID string
		if err := rows.Scan(&key, &externalID); err != nil {
			return nil, fmt.Errorf("failed to scan resolved track: %w", err)
		}
		state.Resolved[key] = models.ResolvedEntry{ExternalID: externalID}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resolved tracks: %w", err)
	}

	state.Backfill()
	return state, nil
}

// Save makes the stored state equal to state in a single transaction.
//
// Unchanged keys are left untouched, so saving after every resolved record only writes the new row.
func (s *SQLiteStateStore) Save(ctx context.Context, state *models.SyncState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_state (id, schema_version, collection_id, collection_name, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			collection_id = excluded.collection_id,
			collection_name = excluded.collection_name,
			updated_at = excluded.updated_at
	`, state.SchemaVersion, nullString(state.CollectionID), nullString(state.CollectionName), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write sync state: %w", err)
	}

	stored, err := storedKeys(ctx, tx)
	if err != nil {
		return err
	}

	for key, entry := range state.Resolved {
		if current, ok := stored[key]; ok && current == entry.ExternalID {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resolved_tracks (stable_key, external_id, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(stable_key) DO UPDATE SET external_id = excluded.external_id
		`, key, entry.ExternalID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to write resolved track %s: %w", key, err)
		}
	}

	for key := range stored {
		if _, ok := state.Resolved[key]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM resolved_tracks WHERE stable_key = ?", key); err != nil {
			return fmt.Errorf("failed to delete resolved track %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync state: %w", err)
	}

	return nil
}

func storedKeys(ctx context.Context, tx *sql.Tx) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT stable_key, external_id FROM resolved_tracks")
	if err != nil {
		return nil, fmt.Errorf("failed to query resolved tracks: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var key, externalID string
		if err := rows.Scan(&key, &externalID); err != nil {
			return nil, fmt.Errorf("failed to scan resolved track: %w", err)
		}
		keys[key] = externalID
	}
	return keys, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
