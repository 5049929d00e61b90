package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
)

// RunRepository records import run summaries in import_runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run summary, generating an ID when the summary has none.
func (r *RunRepository) Create(ctx context.Context, run *models.RunSummary) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.Source == "" {
		return fmt.Errorf("%w: run source is required", shared.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_runs (
			id, source, collection_id, dry_run, added, skipped,
			no_match, errors, started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Source,
		nullString(run.CollectionID),
		run.DryRun,
		run.Added,
		run.Skipped,
		run.NoMatch,
		run.Errors,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// List returns the most recent runs first. A non-positive limit returns every run.
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.RunSummary, error) {
	query := `
		SELECT id, source, collection_id, dry_run, added, skipped, no_match, errors, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var run models.RunSummary
		var collectionID sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.Source,
			&collectionID,
			&run.DryRun,
			&run.Added,
			&run.Skipped,
			&run.NoMatch,
			&run.Errors,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CollectionID = collectionID.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
