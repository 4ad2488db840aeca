package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// Report returns the flat attendance rows for a date range and optional sector/shift
func Report(ctx context.Context, database db.ReportStore, logger *zap.Logger, filter db.ReportFilter) ([]db.ReportRow, error) {
	if filter.End.Before(filter.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s", filter.End.Format("2006-01-02"), filter.Start.Format("2006-01-02"))
	}
	if filter.Shift == model.ShiftUnset {
		filter.Shift = ""
	}

	rows, err := database.Report(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	logger.Debug("Report loaded",
		zap.Time("start", filter.Start),
		zap.Time("end", filter.End),
		zap.String("sector", filter.Sector),
		zap.String("shift", filter.Shift),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// WorkerSummary aggregates one worker's statuses over a report
type WorkerSummary struct {
	Worker       string
	Sector       string
	Counts       map[string]int
	Recorded     int
	Present      int
	PresenceRate decimal.Decimal // Present / Recorded, 0..1, two decimal places
}

// IsPresence reports whether a status counts as the worker being at work
func IsPresence(status string) bool {
	switch status {
	case model.StatusPresent, model.StatusLate, model.StatusHourBank, model.StatusEarlyLeave:
		return true
	}
	_, redirect := model.RedirectSector(status)
	return redirect
}

// Summarize groups report rows by worker, ordered by worker name. The sector is
// the one of the worker's latest row.
func Summarize(rows []db.ReportRow) []WorkerSummary {
	byWorker := make(map[string]*WorkerSummary)
	latest := make(map[string]string)
	for _, r := range rows {
		status := strings.TrimSpace(r.Status)
		if status == "" {
			continue
		}

		s, ok := byWorker[r.Worker]
		if !ok {
			s = &WorkerSummary{Worker: r.Worker, Counts: make(map[string]int)}
			byWorker[r.Worker] = s
		}
		if day := r.Date.Format("2006-01-02"); day >= latest[r.Worker] {
			latest[r.Worker] = day
			s.Sector = r.Sector
		}

		s.Counts[status]++
		s.Recorded++
		if IsPresence(status) {
			s.Present++
		}
	}

	out := make([]WorkerSummary, 0, len(byWorker))
	for _, s := range byWorker {
		s.PresenceRate = decimal.Zero
		if s.Recorded > 0 {
			s.PresenceRate = decimal.NewFromInt(int64(s.Present)).
				DivRound(decimal.NewFromInt(int64(s.Recorded)), 2)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Worker < out[j].Worker })
	return out
}
