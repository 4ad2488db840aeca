package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// ListWorkersRequest selects workers for the management views
type ListWorkersRequest struct {
	Sector   string // empty for all sectors
	Shift    string // empty or "-" for all shifts
	Inactive bool   // list deactivated workers instead of active ones
	Filter   model.WorkerFilter
}

// ErrInvalidInput marks errors caused by the caller's input
var ErrInvalidInput = errors.New("invalid input")

// ListWorkers returns active (or, with Inactive, deactivated) workers ordered by name
func ListWorkers(ctx context.Context, database db.WorkerStore, logger *zap.Logger, req ListWorkersRequest) ([]db.Worker, error) {
	shift := req.Shift
	if shift == model.ShiftUnset {
		shift = ""
	}

	workers, err := database.ListWorkers(ctx, db.WorkerQuery{Sector: req.Sector, Shift: shift, ActiveOnly: !req.Inactive})
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	if req.Inactive {
		inactive := make([]db.Worker, 0, len(workers))
		for _, w := range workers {
			if !w.Active {
				inactive = append(inactive, w)
			}
		}
		workers = inactive
	}

	workers = filterWorkers(workers, req.Filter)
	logger.Debug("Listed workers",
		zap.String("sector", req.Sector),
		zap.String("shift", shift),
		zap.Bool("inactive", req.Inactive),
		zap.Int("count", len(workers)))
	return workers, nil
}

// AddWorker creates an active worker. The shift is normalised.
func AddWorker(ctx context.Context, database db.WorkerStore, logger *zap.Logger, name, sector, shift string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: worker name is required", ErrInvalidInput)
	}
	if !model.IsValidSector(sector) {
		return 0, fmt.Errorf("%w: unknown sector %q", ErrInvalidInput, sector)
	}
	normalized, err := model.ParseShift(shift)
	if err != nil {
		return 0, err
	}

	id, err := database.AddWorker(ctx, name, sector, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to add worker: %w", err)
	}

	logger.Info("Worker added", zap.Int64("id", id), zap.String("name", name), zap.String("sector", sector), zap.String("shift", normalized))
	return id, nil
}

// SetWorkersActive deactivates and reactivates workers in one batch
func SetWorkersActive(ctx context.Context, database db.WorkerStore, logger *zap.Logger, deactivate, activate []int64) error {
	if len(deactivate) == 0 && len(activate) == 0 {
		return nil
	}
	if err := database.SetWorkersActive(ctx, deactivate, activate); err != nil {
		return fmt.Errorf("failed to update worker status: %w", err)
	}
	logger.Info("Worker status updated", zap.Int64s("deactivated", deactivate), zap.Int64s("activated", activate))
	return nil
}

// UpdateWorkerShift moves a worker to another shift
func UpdateWorkerShift(ctx context.Context, database db.WorkerStore, logger *zap.Logger, id int64, shift string) error {
	normalized, err := model.ParseShift(shift)
	if err != nil {
		return err
	}
	if err := database.UpdateWorkerShift(ctx, id, normalized); err != nil {
		return fmt.Errorf("failed to update shift of worker %d: %w", id, err)
	}
	logger.Info("Worker shift updated", zap.Int64("id", id), zap.String("shift", normalized))
	return nil
}
