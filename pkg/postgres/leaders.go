package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// FindOrCreateLeader returns the id of the leader with this exact trimmed name, sector and
// shift, inserting one on first use. Two concurrent first uses may insert twice.
func (d *DB) FindOrCreateLeader(ctx context.Context, name, sector, shift string) (int64, error) {
	name = strings.TrimSpace(name)

	var id int64
	err := d.pool.QueryRow(ctx, `
		SELECT id FROM leaders WHERE name = $1 AND sector = $2 AND shift = $3
		ORDER BY id LIMIT 1
	`, name, sector, shift).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to query leader: %w", err)
	}

	err = d.pool.QueryRow(ctx, `
		INSERT INTO leaders (name, sector, shift) VALUES ($1, $2, $3) RETURNING id
	`, name, sector, shift).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert leader: %w", err)
	}
	return id, nil
}
