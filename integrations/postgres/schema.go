package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- One row per imported report file
CREATE TABLE IF NOT EXISTS import_batches (
    id UUID PRIMARY KEY,
    source VARCHAR(255) NOT NULL,
    lines INTEGER NOT NULL DEFAULT 0,
    records INTEGER NOT NULL DEFAULT 0,
    duplicates INTEGER NOT NULL DEFAULT 0,
    warnings INTEGER NOT NULL DEFAULT 0,
    imported_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(source)
);

-- Canonical aged account rows
CREATE TABLE IF NOT EXISTS aged_accounts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    batch_id UUID NOT NULL REFERENCES import_batches(id) ON DELETE CASCADE,
    account_id VARCHAR(50) NOT NULL,
    account_name VARCHAR(255) NOT NULL,
    account_type VARCHAR(100) NOT NULL DEFAULT '',
    last_visit DATE NOT NULL,
    last_payment DATE NOT NULL,
    current NUMERIC(18,2) NOT NULL,
    days_30 NUMERIC(18,2) NOT NULL,
    days_60 NUMERIC(18,2) NOT NULL,
    days_90 NUMERIC(18,2) NOT NULL,
    days_120 NUMERIC(18,2) NOT NULL,
    days_150 NUMERIC(18,2) NOT NULL,
    outstanding NUMERIC(18,2) NOT NULL,
    status VARCHAR(100) NOT NULL DEFAULT '',
    id_number VARCHAR(13) NOT NULL,
    claim VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(account_id, id_number)
);

CREATE INDEX IF NOT EXISTS idx_aged_accounts_batch_id ON aged_accounts(batch_id);
CREATE INDEX IF NOT EXISTS idx_aged_accounts_outstanding ON aged_accounts(outstanding) WHERE outstanding != 0;
`

// EnsureSchema creates the import tables if they don't exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
