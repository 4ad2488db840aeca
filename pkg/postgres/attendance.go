package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/logistica/presencas/pkg/db"
)

// LoadAttendance returns the stored status of every (worker, date) in range for the given workers.
// No query is issued when workerIDs is empty.
func (d *DB) LoadAttendance(ctx context.Context, workerIDs []int64, start, end time.Time) (map[db.AttendanceKey]string, error) {
	out := make(map[db.AttendanceKey]string)
	if len(workerIDs) == 0 {
		return out, nil
	}

	rows, err := d.pool.Query(ctx, `
		SELECT worker_id, date, COALESCE(status, '')
		FROM attendance
		WHERE worker_id = ANY($1)
		  AND date BETWEEN $2 AND $3
	`, workerIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			workerID int64
			date     time.Time
			status   string
		)
		if err := rows.Scan(&workerID, &date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out[db.NewAttendanceKey(workerID, date)] = status
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}

	return out, nil
}

const upsertAttendanceSQL = `
	INSERT INTO attendance (worker_id, date, status, sector, shift, submitted_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	ON CONFLICT (worker_id, date) DO UPDATE
	  SET status       = EXCLUDED.status,
	      sector       = EXCLUDED.sector,
	      shift        = EXCLUDED.shift,
	      submitted_by = EXCLUDED.submitted_by,
	      updated_at   = NOW()
	  WHERE attendance.status       IS DISTINCT FROM EXCLUDED.status
	     OR attendance.sector       IS DISTINCT FROM EXCLUDED.sector
	     OR attendance.shift        IS DISTINCT FROM EXCLUDED.shift
	     OR attendance.submitted_by IS DISTINCT FROM EXCLUDED.submitted_by
`

// ApplyAttendance writes a save batch in a single transaction. Cleared cells delete the
// record; other changes upsert on (worker_id, date) and are skipped when nothing differs.
// On failure the whole batch is rolled back and a *db.BatchError is returned.
func (d *DB) ApplyAttendance(ctx context.Context, changes []db.AttendanceChange) (db.ApplyResult, error) {
	var result db.ApplyResult
	if len(changes) == 0 {
		return result, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, c := range changes {
		if c.IsDelete() {
			tag, err := tx.Exec(ctx, `DELETE FROM attendance WHERE worker_id = $1 AND date = $2`, c.WorkerID, c.Date)
			if err != nil {
				return db.ApplyResult{}, batchError(changes, i, fmt.Errorf("failed to delete attendance: %w", err))
			}
			result.Deleted += int(tag.RowsAffected())
			continue
		}

		tag, err := tx.Exec(ctx, upsertAttendanceSQL, c.WorkerID, c.Date, c.Status, c.Sector, c.Shift, c.SubmittedBy)
		if err != nil {
			return db.ApplyResult{}, batchError(changes, i, fmt.Errorf("failed to upsert attendance: %w", classify(err)))
		}
		if tag.RowsAffected() == 0 {
			result.Skipped++
		} else {
			result.Written++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return db.ApplyResult{}, batchError(changes, len(changes)-1, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return result, nil
}

func batchError(changes []db.AttendanceChange, index int, err error) *db.BatchError {
	notApplied := make([]db.AttendanceChange, len(changes))
	copy(notApplied, changes)
	return &db.BatchError{
		Index:      index,
		Failed:     changes[index],
		NotApplied: notApplied,
		Err:        err,
	}
}

// foreignKeyViolation is the SQLSTATE raised when worker_id has no workers row
const foreignKeyViolation = "23503"

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %w", db.ErrWorkerNotFound, err)
	}
	return err
}
