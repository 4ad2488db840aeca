package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// LoadGridStore defines the database operations needed to load a grid
type LoadGridStore interface {
	ListWorkers(ctx context.Context, query db.WorkerQuery) ([]db.Worker, error)
	LoadAttendance(ctx context.Context, workerIDs []int64, start, end time.Time) (map[db.AttendanceKey]string, error)
}

// LoadGridRequest selects the workers and dates of a grid. An empty Shift or ShiftUnset
// shows all shifts of the sector; WithShifts adds the per-row shift column.
type LoadGridRequest struct {
	Sector     string
	Shift      string
	Start      time.Time
	End        time.Time
	Filter     model.WorkerFilter
	WithShifts bool
}

// LoadGridResult is a grid merged with stored statuses plus the lookups needed to save it back
type LoadGridResult struct {
	Grid         *grid.Grid
	Workers      []db.Worker
	IDByName     map[string]int64
	ShiftsByName map[string]string
	Attendance   map[db.AttendanceKey]string
}

// LoadGrid lists the active workers for the selection, builds an empty grid over the
// range and merges stored attendance into it
func LoadGrid(ctx context.Context, database LoadGridStore, logger *zap.Logger, req LoadGridRequest) (*LoadGridResult, error) {
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s", req.End.Format("2006-01-02"), req.Start.Format("2006-01-02"))
	}

	shift := req.Shift
	if shift == model.ShiftUnset {
		shift = ""
	}

	logger.Debug("Loading grid",
		zap.String("sector", req.Sector),
		zap.String("shift", shift),
		zap.String("filter", string(req.Filter)))

	workers, err := database.ListWorkers(ctx, db.WorkerQuery{Sector: req.Sector, Shift: shift, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	workers = filterWorkers(workers, req.Filter)
	logger.Debug("Workers selected", zap.Int("count", len(workers)))

	attendance, err := database.LoadAttendance(ctx, grid.WorkerIDs(workers), req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	var g *grid.Grid
	if req.WithShifts {
		g = grid.BuildWithShifts(workers, req.Start, req.End)
	} else {
		g = grid.Build(workers, req.Start, req.End)
	}
	ids := grid.IDByName(workers)
	grid.MergeExisting(g, attendance, ids)

	return &LoadGridResult{
		Grid:         g,
		Workers:      workers,
		IDByName:     ids,
		ShiftsByName: grid.ShiftsByName(workers),
		Attendance:   attendance,
	}, nil
}

func filterWorkers(workers []db.Worker, filter model.WorkerFilter) []db.Worker {
	if filter == "" || filter == model.FilterAll {
		return workers
	}
	kept := make([]db.Worker, 0, len(workers))
	for _, w := range workers {
		if filter.Keep(w.Name) {
			kept = append(kept, w)
		}
	}
	return kept
}
