package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// ErrRecordNotFound is returned when a (job, release) identity has no row.
var ErrRecordNotFound = errors.New("record not found")

// syncConcurrency bounds the number of parallel upserts during a bulk sync.
const syncConcurrency = 8

// PersistOrder durably stores the fab order for one job-release unit.
// It is idempotent: repeating the call with identical inputs leaves the
// mapping unchanged.
func (db *DB) PersistOrder(ctx context.Context, jobNumber int, releaseNumber string, fabOrder float64) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE records SET fab_order = $3, updated_at = NOW()
		 WHERE job_number = $1 AND release_number = $2`,
		jobNumber, releaseNumber, fabOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to persist order for %d-%s: %w", jobNumber, releaseNumber, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("persist order for %d-%s: %w", jobNumber, releaseNumber, ErrRecordNotFound)
	}
	return nil
}

// GetRecord retrieves one record by identity. Returns nil when absent.
func (db *DB) GetRecord(ctx context.Context, jobNumber int, releaseNumber string) (*RecordRow, error) {
	var row RecordRow
	err := db.pool.QueryRow(ctx,
		`SELECT job_number, release_number, stage_group, fab_order, payload, created_at, updated_at
		 FROM records WHERE job_number = $1 AND release_number = $2`,
		jobNumber, releaseNumber,
	).Scan(&row.JobNumber, &row.ReleaseNumber, &row.StageGroup, &row.FabOrder, &row.Payload, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record %d-%s: %w", jobNumber, releaseNumber, err)
	}
	return &row, nil
}

// ListRecords retrieves every record, keyed records first in fab-order
// ascending, unkeyed records last by identity.
func (db *DB) ListRecords(ctx context.Context) ([]RecordRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_number, release_number, stage_group, fab_order, payload, created_at, updated_at
		 FROM records
		 ORDER BY fab_order ASC NULLS LAST, job_number ASC, release_number ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []RecordRow
	for rows.Next() {
		var row RecordRow
		if err := rows.Scan(&row.JobNumber, &row.ReleaseNumber, &row.StageGroup, &row.FabOrder, &row.Payload, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, row)
	}
	return records, nil
}

// UpsertRecord inserts or refreshes one record. The fab order is only
// overwritten when the incoming snapshot carries one; a record's existing
// key survives syncs that omit it.
func (db *DB) UpsertRecord(ctx context.Context, rec types.Record) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO records (job_number, release_number, stage_group, fab_order, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (job_number, release_number) DO UPDATE SET
		   stage_group = $3,
		   fab_order = COALESCE($4, records.fab_order),
		   payload = $5,
		   updated_at = NOW()`,
		rec.JobNumber, rec.ReleaseNumber, rec.StageGroup, rec.FabOrder, rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.Identity(), err)
	}
	return nil
}

// SyncRecords bulk-upserts a polled dashboard snapshot with bounded
// concurrency. The first failure cancels the remaining upserts.
func (db *DB) SyncRecords(ctx context.Context, records []types.Record) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)

	for _, rec := range records {
		g.Go(func() error {
			return db.UpsertRecord(gCtx, rec)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to sync records: %w", err)
	}
	return nil
}

// DeleteRecord removes one record by identity.
func (db *DB) DeleteRecord(ctx context.Context, jobNumber int, releaseNumber string) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM records WHERE job_number = $1 AND release_number = $2`,
		jobNumber, releaseNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to delete record %d-%s: %w", jobNumber, releaseNumber, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete record %d-%s: %w", jobNumber, releaseNumber, ErrRecordNotFound)
	}
	return nil
}
