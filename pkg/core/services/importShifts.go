package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/db"
	"github.com/logistica/presencas/pkg/importer"
)

// ImportShiftsStore defines the database operations needed by the shift import
type ImportShiftsStore interface {
	UpsertWorkerShifts(ctx context.Context, assignments []db.ShiftAssignment) (int, error)
}

// ImportResult summarises a shift import
type ImportResult struct {
	Tables int
	Rows   int
}

// ImportShifts creates or updates one worker per recognised row of the tables.
// The whole file is parsed before anything is written and is persisted in one transaction.
func ImportShifts(ctx context.Context, database ImportShiftsStore, logger *zap.Logger, tables []importer.Table, defaultSector string) (*ImportResult, error) {
	logger.Debug("Importing shifts", zap.Int("tables", len(tables)), zap.String("default_sector", defaultSector))

	assignments, err := importer.Assignments(tables, defaultSector)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		logger.Warn("No recognised rows in shift file")
		return &ImportResult{Tables: len(tables)}, nil
	}

	n, err := database.UpsertWorkerShifts(ctx, assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to import shifts: %w", err)
	}

	logger.Info("Shifts imported", zap.Int("rows", n), zap.Int("tables", len(tables)))
	return &ImportResult{Tables: len(tables), Rows: n}, nil
}
