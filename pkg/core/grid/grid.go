// Package grid holds the worker × date status grid edited by supervisors and the
// pure transforms between it and row-level attendance changes.
package grid

import (
	"strings"
	"time"

	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/db"
)

// Row is one worker line of the grid. Cells are keyed by ISO date.
type Row struct {
	Worker string            `json:"worker"`
	Sector string            `json:"sector"`
	Shift  string            `json:"shift,omitempty"`
	Cells  map[string]string `json:"cells"`
}

// Grid is a worker × date table of statuses. HasShift reports whether rows carry
// their own shift column; when false the page-level shift applies on save.
type Grid struct {
	Dates    []time.Time `json:"dates"`
	HasShift bool        `json:"hasShift"`
	Rows     []Row       `json:"rows"`
}

// Entry is one (worker, date, status) triple produced by Melt
type Entry struct {
	WorkerID int64
	Worker   string
	Date     time.Time
	Status   string
	Sector   string
	Shift    string
}

// Build returns a grid with one row per worker and an empty cell for every date in [start, end]
func Build(workers []db.Worker, start, end time.Time) *Grid {
	return build(workers, start, end, false)
}

// BuildWithShifts is Build with each row carrying the worker's own shift
func BuildWithShifts(workers []db.Worker, start, end time.Time) *Grid {
	return build(workers, start, end, true)
}

func build(workers []db.Worker, start, end time.Time, withShift bool) *Grid {
	g := &Grid{
		Dates:    period.Days(start, end),
		HasShift: withShift,
		Rows:     make([]Row, 0, len(workers)),
	}

	for _, w := range workers {
		row := Row{
			Worker: w.Name,
			Sector: w.Sector,
			Cells:  make(map[string]string, len(g.Dates)),
		}
		if withShift {
			row.Shift = w.Shift
		}
		for _, d := range g.Dates {
			row.Cells[period.ISO(d)] = ""
		}
		g.Rows = append(g.Rows, row)
	}

	return g
}

// Cell returns the status of the first row for worker on date
func (g *Grid) Cell(worker string, date time.Time) (string, bool) {
	for _, row := range g.Rows {
		if row.Worker == worker {
			status, ok := row.Cells[period.ISO(date)]
			return status, ok
		}
	}
	return "", false
}

// Set writes status into every row for worker on date. Dates outside the grid are ignored.
func (g *Grid) Set(worker string, date time.Time, status string) bool {
	key := period.ISO(date)
	set := false
	for i := range g.Rows {
		if g.Rows[i].Worker != worker {
			continue
		}
		if _, ok := g.Rows[i].Cells[key]; !ok {
			continue
		}
		g.Rows[i].Cells[key] = status
		set = true
	}
	return set
}

// MergeExisting overwrites cells with the stored status of every (worker, date) that has a record
func MergeExisting(g *Grid, attendance map[db.AttendanceKey]string, idByName map[string]int64) *Grid {
	for i := range g.Rows {
		id, ok := idByName[g.Rows[i].Worker]
		if !ok {
			continue
		}
		for _, d := range g.Dates {
			if status, ok := attendance[db.NewAttendanceKey(id, d)]; ok {
				g.Rows[i].Cells[period.ISO(d)] = status
			}
		}
	}
	return g
}

// Melt reshapes the grid into one entry per (row, date), date by date. Rows whose worker
// does not resolve to an id are dropped. Statuses are trimmed.
func Melt(g *Grid, idByName map[string]int64) []Entry {
	entries := make([]Entry, 0, len(g.Dates)*len(g.Rows))
	for _, d := range g.Dates {
		key := period.ISO(d)
		for _, row := range g.Rows {
			id, ok := idByName[row.Worker]
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				WorkerID: id,
				Worker:   row.Worker,
				Date:     d,
				Status:   strings.TrimSpace(row.Cells[key]),
				Sector:   row.Sector,
				Shift:    row.Shift,
			})
		}
	}
	return entries
}

// NewlyMarked returns the workers marked with status on date whose stored record
// does not already carry it, in grid order
func NewlyMarked(g *Grid, attendance map[db.AttendanceKey]string, idByName map[string]int64, date time.Time, status string) []string {
	key := period.ISO(date)
	seen := make(map[string]bool)
	var names []string
	for _, row := range g.Rows {
		if seen[row.Worker] || strings.TrimSpace(row.Cells[key]) != status {
			continue
		}
		if id, ok := idByName[row.Worker]; ok && attendance[db.NewAttendanceKey(id, date)] == status {
			continue
		}
		seen[row.Worker] = true
		names = append(names, row.Worker)
	}
	return names
}

// IDByName maps worker names to ids. With duplicate names the last worker wins.
func IDByName(workers []db.Worker) map[string]int64 {
	ids := make(map[string]int64, len(workers))
	for _, w := range workers {
		ids[w.Name] = w.ID
	}
	return ids
}

// ShiftsByName maps worker names to their current shift
func ShiftsByName(workers []db.Worker) map[string]string {
	shifts := make(map[string]string, len(workers))
	for _, w := range workers {
		shifts[w.Name] = w.Shift
	}
	return shifts
}

// WorkerIDs returns the ids of the given workers
func WorkerIDs(workers []db.Worker) []int64 {
	ids := make([]int64, len(workers))
	for i, w := range workers {
		ids[i] = w.ID
	}
	return ids
}
