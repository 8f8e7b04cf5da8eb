package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jobeer1/agedfix/extractor/aged"
)

// BatchExists looks up the batch imported from source.
func (db *DB) BatchExists(ctx context.Context, source string) (bool, string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		SELECT id FROM import_batches WHERE source = $1
	`, source).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to check batch: %w", err)
	}
	return true, id, nil
}

// CreateBatch records a report file and its run statistics.
func (db *DB) CreateBatch(ctx context.Context, source string, stats aged.Stats, warnings int) (string, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO import_batches (id, source, lines, records, duplicates, warnings)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, source, stats.Lines, stats.Records, stats.Duplicates, warnings)
	if err != nil {
		return "", fmt.Errorf("failed to create batch: %w", err)
	}
	return id.String(), nil
}

// DeleteSource removes the batch for source and, by cascade, its records.
func (db *DB) DeleteSource(ctx context.Context, source string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM import_batches WHERE source = $1`, source); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	return nil
}
