package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Jobeer1/agedfix/extractor/common"
)

const insertRecordSQL = `
	INSERT INTO aged_accounts (
		batch_id, account_id, account_name, account_type, last_visit, last_payment,
		current, days_30, days_60, days_90, days_120, days_150, outstanding,
		status, id_number, claim
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (account_id, id_number) DO NOTHING
`

// recordArgs returns the insert parameters of rec, batch id first.
func recordArgs(batchID string, rec common.Record) []any {
	return []any{
		batchID, rec.AccountID, rec.AccountName, rec.AccountType, rec.LastVisit, rec.LastPayment,
		rec.Current, rec.Days30, rec.Days60, rec.Days90, rec.Days120, rec.Days150, rec.Outstanding,
		rec.Status, rec.IDNumber, rec.Claim,
	}
}

// InsertRecords bulk inserts records for a batch. Rows whose (account_id,
// id_number) already exist are skipped; the count of rows actually inserted is
// returned.
func (db *DB) InsertRecords(ctx context.Context, batchID string, records []common.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertRecordSQL, recordArgs(batchID, rec)...)
	}

	br := db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range records {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert record: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
