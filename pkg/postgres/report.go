package postgres

import (
	"context"
	"fmt"

	"github.com/logistica/presencas/pkg/db"
)

// Report retrieves flat attendance rows for a date range, optionally narrowed to
// one sector and/or shift
func (d *DB) Report(ctx context.Context, filter db.ReportFilter) ([]db.ReportRow, error) {
	sql := `
		SELECT w.name, a.date, COALESCE(a.status, ''), a.sector, a.shift, COALESCE(a.submitted_by, '')
		FROM attendance a
		JOIN workers w ON w.id = a.worker_id
		WHERE a.date BETWEEN $1 AND $2`
	args := []any{filter.Start, filter.End}

	if filter.Sector != "" {
		args = append(args, filter.Sector)
		sql += fmt.Sprintf(" AND a.sector = $%d", len(args))
	}
	if filter.Shift != "" {
		args = append(args, filter.Shift)
		sql += fmt.Sprintf(" AND a.shift = $%d", len(args))
	}
	sql += " ORDER BY a.sector, a.shift, w.name, a.date"

	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	defer rows.Close()

	var out []db.ReportRow
	for rows.Next() {
		var r db.ReportRow
		if err := rows.Scan(&r.Worker, &r.Date, &r.Status, &r.Sector, &r.Shift, &r.SubmittedBy); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return out, nil
}
