package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// SaveGridStore defines the database operations needed to save a grid
type SaveGridStore interface {
	db.LeaderStore
	db.AttendanceStore
}

// SaveGridRequest is an edited grid plus the page-level selections it was edited under.
// Sector and Shift are used for rows that carry none of their own.
type SaveGridRequest struct {
	Grid        *grid.Grid
	IDByName    map[string]int64
	Start       time.Time
	End         time.Time
	Sector      string
	Shift       string
	SubmittedBy string
}

// SaveGridResult reports what a save did
type SaveGridResult struct {
	db.ApplyResult
	Entries  int
	LeaderID int64
}

// SaveGrid melts the grid into per-day changes and applies them as one atomic batch.
// Cleared cells delete their record; statuses in the redirect set are stored under
// the redirect target sector. On failure nothing is applied and the error is a *db.BatchError
// when a specific row failed.
func SaveGrid(ctx context.Context, database SaveGridStore, logger *zap.Logger, req SaveGridRequest) (*SaveGridResult, error) {
	if req.Grid == nil {
		return nil, fmt.Errorf("grid is required")
	}

	logger.Debug("Saving grid",
		zap.String("sector", req.Sector),
		zap.String("shift", req.Shift),
		zap.Time("start", req.Start),
		zap.Time("end", req.End),
		zap.Int("rows", len(req.Grid.Rows)),
		zap.Int("dates", len(req.Grid.Dates)))

	changes := Changes(grid.Melt(req.Grid, req.IDByName), req)
	result := &SaveGridResult{Entries: len(changes)}

	submittedBy := strings.TrimSpace(req.SubmittedBy)
	if submittedBy != "" {
		leaderID, err := database.FindOrCreateLeader(ctx, submittedBy, req.Sector, req.Shift)
		if err != nil {
			return nil, fmt.Errorf("failed to register leader: %w", err)
		}
		result.LeaderID = leaderID
		logger.Debug("Resolved leader", zap.String("name", submittedBy), zap.Int64("leader_id", leaderID))
	}

	if len(changes) == 0 {
		logger.Debug("Nothing to save")
		return result, nil
	}

	applied, err := database.ApplyAttendance(ctx, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	result.ApplyResult = applied

	logger.Info("Grid saved",
		zap.String("sector", req.Sector),
		zap.Int("written", applied.Written),
		zap.Int("skipped", applied.Skipped),
		zap.Int("deleted", applied.Deleted))

	return result, nil
}

// Changes resolves melted entries into attendance changes under the request's page defaults
func Changes(entries []grid.Entry, req SaveGridRequest) []db.AttendanceChange {
	submittedBy := strings.TrimSpace(req.SubmittedBy)
	changes := make([]db.AttendanceChange, 0, len(entries))
	for _, e := range entries {
		sector := e.Sector
		if sector == "" {
			sector = req.Sector
		}
		shift := e.Shift
		if shift == "" {
			shift = req.Shift
		}

		change := db.AttendanceChange{
			WorkerID:    e.WorkerID,
			Date:        e.Date,
			Status:      e.Status,
			Sector:      model.EffectiveSector(e.Status, sector),
			Shift:       shift,
			SubmittedBy: submittedBy,
		}
		changes = append(changes, change)
	}
	return changes
}
