package api

import (
	"time"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/db"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SessionDTO struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
	ExpiresAt   string `json:"expiresAt"`
}

type PeriodDTO struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toPeriodDTO(p period.Period) PeriodDTO {
	return PeriodDTO{Label: p.Label(), Start: period.ISO(p.Start), End: period.ISO(p.End)}
}

type PeriodsResponse struct {
	Periods         []PeriodDTO `json:"periods"`
	MinimumFillable string      `json:"minimumFillable"`
}

// RowDTO is one grid row. Cells are keyed by YYYY-MM-DD.
type RowDTO struct {
	WorkerID int64             `json:"workerId,omitempty"`
	Worker   string            `json:"worker" validate:"required"`
	Sector   string            `json:"sector,omitempty" validate:"omitempty,sector"`
	Shift    string            `json:"shift,omitempty" validate:"omitempty,shift"`
	Cells    map[string]string `json:"cells" validate:"dive,keys,datetime=2006-01-02,endkeys,status"`
}

type GridResponse struct {
	Sector          string   `json:"sector"`
	Shift           string   `json:"shift"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	Dates           []string `json:"dates"`
	HasShift        bool     `json:"hasShift"`
	Rows            []RowDTO `json:"rows"`
	MinimumFillable string   `json:"minimumFillable"`
}

func toGridResponse(g *grid.Grid, ids map[string]int64, sector, shift string, start, end, minimum time.Time) GridResponse {
	resp := GridResponse{
		Sector:          sector,
		Shift:           shift,
		Start:           period.ISO(start),
		End:             period.ISO(end),
		Dates:           make([]string, len(g.Dates)),
		HasShift:        g.HasShift,
		Rows:            make([]RowDTO, len(g.Rows)),
		MinimumFillable: period.ISO(minimum),
	}
	for i, d := range g.Dates {
		resp.Dates[i] = period.ISO(d)
	}
	for i, row := range g.Rows {
		resp.Rows[i] = RowDTO{WorkerID: ids[row.Worker], Worker: row.Worker, Sector: row.Sector, Shift: row.Shift, Cells: row.Cells}
	}
	return resp
}

// SaveGridRequest is an edited grid. Shift "-" means the grid was edited in the all-shifts view.
type SaveGridRequest struct {
	Sector      string   `json:"sector" validate:"required,sector"`
	Shift       string   `json:"shift" validate:"required,shift_or_unset"`
	Start       string   `json:"start" validate:"required,datetime=2006-01-02"`
	End         string   `json:"end" validate:"required,datetime=2006-01-02"`
	SubmittedBy string   `json:"submittedBy,omitempty" validate:"max=120"`
	Rows        []RowDTO `json:"rows" validate:"dive"`
}

type SaveGridResponse struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Deleted int `json:"deleted"`
	Entries int `json:"entries"`

	// Workers newly marked FÉRIAS on a single-day save; clients offer to extend the vacation over a range
	NewlyOnVacation []string `json:"newlyOnVacation,omitempty"`
}

type ApplyRangeRequest struct {
	Workers       []string `json:"workers" validate:"required,min=1,dive,required"`
	Sector        string   `json:"sector" validate:"required,sector"`
	Status        string   `json:"status" validate:"required,status"`
	Start         string   `json:"start" validate:"required,datetime=2006-01-02"`
	End           string   `json:"end" validate:"required,datetime=2006-01-02"`
	FallbackShift string   `json:"fallbackShift,omitempty" validate:"omitempty,shift_or_unset"`
	SubmittedBy   string   `json:"submittedBy,omitempty" validate:"max=120"`
}

// BatchErrorResponse reports a rolled back save
type BatchErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details"`
	FailedRow  int    `json:"failedRow"`
	NotApplied int    `json:"notApplied"`
}

type WorkerDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Shift  string `json:"shift"`
	Active bool   `json:"active"`
}

func toWorkerDTOs(workers []db.Worker) []WorkerDTO {
	out := make([]WorkerDTO, len(workers))
	for i, w := range workers {
		out[i] = WorkerDTO{ID: w.ID, Name: w.Name, Sector: w.Sector, Shift: w.Shift, Active: w.Active}
	}
	return out
}

type AddWorkerRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Sector string `json:"sector" validate:"required,sector"`
	Shift  string `json:"shift" validate:"required"`
}

type SetActiveRequest struct {
	Deactivate []int64 `json:"deactivate" validate:"dive,min=1"`
	Activate   []int64 `json:"activate" validate:"dive,min=1"`
}

type UpdateShiftRequest struct {
	Shift string `json:"shift" validate:"required"`
}

type ImportSheetsRequest struct {
	SpreadsheetID string `json:"spreadsheetId"`
	DefaultSector string `json:"defaultSector,omitempty" validate:"omitempty,sector"`
}

type ImportResponse struct {
	Tables int `json:"tables"`
	Rows   int `json:"rows"`
}

type SeedRequest struct {
	Shift   string              `json:"shift,omitempty"`
	Sectors map[string][]string `json:"sectors" validate:"required,min=1"`
}

type SeedResponse struct {
	Added    int `json:"added"`
	Existing int `json:"existing"`
}

type DBStatusResponse struct {
	OK     bool   `json:"ok"`
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

type ReportRowDTO struct {
	Worker      string `json:"worker"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Sector      string `json:"sector"`
	Shift       string `json:"shift"`
	SubmittedBy string `json:"submittedBy"`
}

type SummaryDTO struct {
	Worker       string         `json:"worker"`
	Sector       string         `json:"sector"`
	Counts       map[string]int `json:"counts"`
	Recorded     int            `json:"recorded"`
	Present      int            `json:"present"`
	PresenceRate string         `json:"presenceRate"`
}
