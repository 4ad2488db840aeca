package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// ListWorkers retrieves workers ordered by name
func (d *DB) ListWorkers(ctx context.Context, query db.WorkerQuery) ([]db.Worker, error) {
	var (
		conds []string
		args  []any
	)
	if query.Sector != "" {
		args = append(args, query.Sector)
		conds = append(conds, fmt.Sprintf("sector = $%d", len(args)))
	}
	if query.Shift != "" {
		args = append(args, query.Shift)
		conds = append(conds, fmt.Sprintf("shift = $%d", len(args)))
	}
	if query.ActiveOnly {
		conds = append(conds, "active = TRUE")
	}

	sql := `SELECT id, name, sector, shift, active, created_at FROM workers`
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY name, id"

	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []db.Worker
	for rows.Next() {
		var w db.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Sector, &w.Shift, &w.Active, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}

	return workers, nil
}

// AddWorker inserts an active worker with a normalised shift
func (d *DB) AddWorker(ctx context.Context, name, sector, shift string) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO workers (name, sector, shift, active) VALUES ($1, $2, $3, TRUE) RETURNING id
	`, strings.TrimSpace(name), sector, model.NormalizeShift(shift)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert worker: %w", err)
	}
	return id, nil
}

// SetWorkersActive deactivates and reactivates workers in one transaction.
// Empty slices issue no statement.
func (d *DB) SetWorkersActive(ctx context.Context, deactivate, activate []int64) error {
	if len(deactivate) == 0 && len(activate) == 0 {
		return nil
	}

	return d.withTx(ctx, func(tx pgx.Tx) error {
		if len(deactivate) > 0 {
			if _, err := tx.Exec(ctx, `UPDATE workers SET active = FALSE WHERE id = ANY($1)`, deactivate); err != nil {
				return fmt.Errorf("failed to deactivate workers: %w", err)
			}
		}
		if len(activate) > 0 {
			if _, err := tx.Exec(ctx, `UPDATE workers SET active = TRUE WHERE id = ANY($1)`, activate); err != nil {
				return fmt.Errorf("failed to activate workers: %w", err)
			}
		}
		return nil
	})
}

// UpdateWorkerShift changes a worker's shift
func (d *DB) UpdateWorkerShift(ctx context.Context, id int64, shift string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE workers SET shift = $2 WHERE id = $1`, id, model.NormalizeShift(shift))
	if err != nil {
		return fmt.Errorf("failed to update worker shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %d: %w", id, db.ErrWorkerNotFound)
	}
	return nil
}

// UpsertWorkerShift sets the shift of the worker identified by (name, sector) and
// reactivates it, or inserts a new worker. Reports whether a worker was created.
func (d *DB) UpsertWorkerShift(ctx context.Context, name, sector, shift string) (bool, error) {
	var created bool
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		created, err = upsertWorkerShift(ctx, tx, db.ShiftAssignment{Name: name, Sector: sector, Shift: shift})
		return err
	})
	return created, err
}

// UpsertWorkerShifts applies a whole import in one transaction. Nothing is
// committed if any row fails. Returns the number of rows applied.
func (d *DB) UpsertWorkerShifts(ctx context.Context, assignments []db.ShiftAssignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	err := d.withTx(ctx, func(tx pgx.Tx) error {
		for _, a := range assignments {
			if _, err := upsertWorkerShift(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(assignments), nil
}

func upsertWorkerShift(ctx context.Context, tx pgx.Tx, a db.ShiftAssignment) (bool, error) {
	name := strings.TrimSpace(a.Name)
	shift := model.NormalizeShift(a.Shift)

	var id int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM workers WHERE name = $1 AND sector = $2 ORDER BY id LIMIT 1
	`, name, a.Sector).Scan(&id)

	switch {
	case err == nil:
		if _, err := tx.Exec(ctx, `UPDATE workers SET shift = $2, active = TRUE WHERE id = $1`, id, shift); err != nil {
			return false, fmt.Errorf("failed to update shift for %q: %w", name, err)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, `
			INSERT INTO workers (name, sector, shift, active) VALUES ($1, $2, $3, TRUE)
		`, name, a.Sector, shift); err != nil {
			return false, fmt.Errorf("failed to insert worker %q: %w", name, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up worker %q: %w", name, err)
	}
}
