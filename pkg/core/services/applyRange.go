package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/db"
)

// ApplyRangeRequest marks a set of workers with one status on every day of a range
type ApplyRangeRequest struct {
	WorkerNames   []string
	ShiftsByName  map[string]string
	IDByName      map[string]int64
	Start         time.Time
	End           time.Time
	Status        string
	Sector        string
	FallbackShift string
	SubmittedBy   string
}

// ApplyStatusOverRange builds a grid with every date in [Start, End] set to Status for
// each named worker and saves it. A worker's shift comes from ShiftsByName, else
// FallbackShift. Returns an empty result when no names are given.
func ApplyStatusOverRange(ctx context.Context, database SaveGridStore, logger *zap.Logger, req ApplyRangeRequest) (*SaveGridResult, error) {
	if len(req.WorkerNames) == 0 {
		logger.Debug("No workers selected for range, nothing to apply")
		return &SaveGridResult{}, nil
	}

	logger.Debug("Applying status over range",
		zap.String("status", req.Status),
		zap.Strings("workers", req.WorkerNames),
		zap.Time("start", req.Start),
		zap.Time("end", req.End))

	workers := make([]db.Worker, 0, len(req.WorkerNames))
	for _, name := range req.WorkerNames {
		shift, ok := req.ShiftsByName[name]
		if !ok || shift == "" {
			shift = req.FallbackShift
		}
		workers = append(workers, db.Worker{Name: name, Sector: req.Sector, Shift: shift})
	}

	g := grid.BuildWithShifts(workers, req.Start, req.End)
	for _, w := range workers {
		for _, d := range g.Dates {
			g.Set(w.Name, d, req.Status)
		}
	}

	return SaveGrid(ctx, database, logger, SaveGridRequest{
		Grid:        g,
		IDByName:    req.IDByName,
		Start:       req.Start,
		End:         req.End,
		Sector:      req.Sector,
		Shift:       req.FallbackShift,
		SubmittedBy: req.SubmittedBy,
	})
}
