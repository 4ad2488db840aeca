package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/auth"
	"github.com/logistica/presencas/pkg/clients/sheetsclient"
	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/core/services"
	"github.com/logistica/presencas/pkg/db"
	"github.com/logistica/presencas/pkg/export"
	"github.com/logistica/presencas/pkg/importer"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 10 << 20
	defaultPeriods = 6
	maxPeriods     = 24
)

// Handler holds the dependencies of the HTTP handlers
type Handler struct {
	Store    db.Database
	Sessions *auth.SessionStore
	Logger   *zap.Logger

	// Sheets enables importing shifts from a Google spreadsheet; nil disables it
	Sheets        sheetsclient.ValuesReader
	SpreadsheetID string

	DefaultShift string
	DBTarget     string // redacted connection string shown to admins
	Now          func() time.Time

	validate *validator.Validate
}

// NewHandler creates a handler with the given store and sessions
func NewHandler(store db.Database, sessions *auth.SessionStore, logger *zap.Logger) *Handler {
	return &Handler{
		Store:        store,
		Sessions:     sessions,
		Logger:       logger,
		DefaultShift: model.ShiftFirst,
		Now:          time.Now,
		validate:     newValidator(),
	}
}

func (h *Handler) today() time.Time {
	return period.Date(h.Now())
}

// decode reads a JSON body into v and validates it. It writes the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := period.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := period.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", period.ISO(end), period.ISO(start))
	}
	return start, end, nil
}

// queryRange reads start/end query parameters, defaulting to the current period
func (h *Handler) queryRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get("start") == "" && q.Get("end") == "" {
		p := period.For(h.today())
		return p.Start, p.End, nil
	}
	return parseRange(q.Get("start"), q.Get("end"))
}

// checkFillable rejects writes into a closed period
func (h *Handler) checkFillable(w http.ResponseWriter, start time.Time) bool {
	minimum := period.MinimumFillable(h.today())
	if start.Before(minimum) {
		writeError(w, http.StatusBadRequest, "Date belongs to a closed period",
			fmt.Errorf("earliest editable date is %s", period.ISO(minimum)))
		return false
	}
	return true
}

func submitter(r *http.Request, explicit string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if session, ok := auth.FromContext(r.Context()); ok {
		return session.DisplayName
	}
	return ""
}

// Login starts a session for an allowed e-mail
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.Sessions.Login(req.Email)
	if err != nil {
		h.Logger.Info("Login refused", zap.String("email", req.Email))
		writeError(w, http.StatusForbidden, "E-mail not authorised", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.Logger.Info("Login", zap.String("email", session.Email), zap.Bool("admin", session.Admin))
	writeJSON(w, http.StatusOK, SessionDTO{
		Token:       session.Token,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Admin:       session.Admin,
		ExpiresAt:   session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout ends the caller's session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(sessionToken(r))
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

// ListPeriods returns the current pay period and the ones before it
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	n := defaultPeriods
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxPeriods {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be between 1 and %d", maxPeriods), err)
			return
		}
		n = v
	}

	periods, err := period.ListRecent(h.today(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}

	resp := PeriodsResponse{
		Periods:         make([]PeriodDTO, len(periods)),
		MinimumFillable: period.ISO(period.MinimumFillable(h.today())),
	}
	for i, p := range periods {
		resp.Periods[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGrid returns the status grid for a sector, optional shift and date range
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sector := q.Get("sector")
	if !model.IsValidSector(sector) {
		writeError(w, http.StatusBadRequest, "Unknown sector", fmt.Errorf("sector %q", sector))
		return
	}
	shift := q.Get("shift")
	if shift == "" {
		shift = model.ShiftUnset
	}
	if shift != model.ShiftUnset && !model.IsValidShift(shift) {
		writeError(w, http.StatusBadRequest, "Unknown shift", fmt.Errorf("shift %q", shift))
		return
	}
	filter, err := model.ParseWorkerFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}
	start, end, err := h.queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	res, err := services.LoadGrid(r.Context(), h.Store, h.Logger, services.LoadGridRequest{
		Sector:     sector,
		Shift:      shift,
		Start:      start,
		End:        end,
		Filter:     filter,
		WithShifts: start.Equal(end) || q.Get("withShifts") == "true",
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGridResponse(res.Grid, res.IDByName, sector, shift, start, end, period.MinimumFillable(h.today())))
}

// SaveGrid persists an edited grid as one atomic batch. Cells missing from a row keep
// their stored status.
func (h *Handler) SaveGrid(w http.ResponseWriter, r *http.Request) {
	var req SaveGridRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	if !h.checkFillable(w, start) {
		return
	}

	current, err := services.LoadGrid(r.Context(), h.Store, h.Logger, services.LoadGridRequest{
		Sector: req.Sector,
		Shift:  req.Shift,
		Start:  start,
		End:    end,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	g := gridFromRows(req.Rows, period.Days(start, end), current)

	var newlyOnVacation []string
	if start.Equal(end) {
		newlyOnVacation = grid.NewlyMarked(g, current.Attendance, current.IDByName, start, model.StatusVacation)
	}

	result, err := services.SaveGrid(r.Context(), h.Store, h.Logger, services.SaveGridRequest{
		Grid:        g,
		IDByName:    current.IDByName,
		Start:       start,
		End:         end,
		Sector:      req.Sector,
		Shift:       req.Shift,
		SubmittedBy: submitter(r, req.SubmittedBy),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveGridResponse{
		Written:         result.Written,
		Skipped:         result.Skipped,
		Deleted:         result.Deleted,
		Entries:         result.Entries,
		NewlyOnVacation: newlyOnVacation,
	})
}

// gridFromRows builds the grid to save from posted rows, starting each cell from the stored status
func gridFromRows(rows []RowDTO, dates []time.Time, current *services.LoadGridResult) *grid.Grid {
	g := &grid.Grid{Dates: dates, Rows: make([]grid.Row, 0, len(rows))}
	for _, row := range rows {
		id, known := current.IDByName[row.Worker]
		cells := make(map[string]string, len(dates))
		for _, d := range dates {
			key := period.ISO(d)
			if known {
				cells[key] = current.Attendance[db.NewAttendanceKey(id, d)]
			}
			if v, ok := row.Cells[key]; ok {
				cells[key] = v
			}
		}
		if row.Shift != "" {
			g.HasShift = true
		}
		g.Rows = append(g.Rows, grid.Row{Worker: row.Worker, Sector: row.Sector, Shift: row.Shift, Cells: cells})
	}
	return g
}

// ApplyRange marks workers with one status over a date range
func (h *Handler) ApplyRange(w http.ResponseWriter, r *http.Request) {
	var req ApplyRangeRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	if !h.checkFillable(w, start) {
		return
	}

	workers, err := h.Store.ListWorkers(r.Context(), db.WorkerQuery{Sector: req.Sector, ActiveOnly: true})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	fallback := req.FallbackShift
	if fallback == "" {
		fallback = model.ShiftUnset
	}

	result, err := services.ApplyStatusOverRange(r.Context(), h.Store, h.Logger, services.ApplyRangeRequest{
		WorkerNames:   req.Workers,
		ShiftsByName:  grid.ShiftsByName(workers),
		IDByName:      grid.IDByName(workers),
		Start:         start,
		End:           end,
		Status:        req.Status,
		Sector:        req.Sector,
		FallbackShift: fallback,
		SubmittedBy:   submitter(r, req.SubmittedBy),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveGridResponse{
		Written: result.Written,
		Skipped: result.Skipped,
		Deleted: result.Deleted,
		Entries: result.Entries,
	})
}

// ListWorkers lists active or deactivated workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sector := q.Get("sector")
	if sector != "" && !model.IsValidSector(sector) {
		writeError(w, http.StatusBadRequest, "Unknown sector", fmt.Errorf("sector %q", sector))
		return
	}
	filter, err := model.ParseWorkerFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	workers, err := services.ListWorkers(r.Context(), h.Store, h.Logger, services.ListWorkersRequest{
		Sector:   sector,
		Shift:    q.Get("shift"),
		Inactive: q.Get("inactive") == "true",
		Filter:   filter,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTOs(workers))
}

// AddWorker creates an active worker
func (h *Handler) AddWorker(w http.ResponseWriter, r *http.Request) {
	var req AddWorkerRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := services.AddWorker(r.Context(), h.Store, h.Logger, req.Name, req.Sector, req.Shift)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// SetWorkersActive deactivates and restores workers
func (h *Handler) SetWorkersActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := services.SetWorkersActive(r.Context(), h.Store, h.Logger, req.Deactivate, req.Activate); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateWorkerShift moves a worker to another shift
func (h *Handler) UpdateWorkerShift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid worker id", err)
		return
	}
	var req UpdateShiftRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := services.UpdateWorkerShift(r.Context(), h.Store, h.Logger, id, req.Shift); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportFile imports an uploaded xlsx or csv shift file (multipart field "file")
func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file", err)
		return
	}
	defer file.Close()

	defaultSector := r.FormValue("defaultSector")
	if defaultSector != "" && !model.IsValidSector(defaultSector) {
		writeError(w, http.StatusBadRequest, "Unknown sector", fmt.Errorf("sector %q", defaultSector))
		return
	}

	tables, err := importer.Read(file, header.Filename)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.importTables(w, r, tables, defaultSector)
}

// ImportSheets imports shifts from the tabs of a Google spreadsheet
func (h *Handler) ImportSheets(w http.ResponseWriter, r *http.Request) {
	if h.Sheets == nil {
		writeError(w, http.StatusNotImplemented, "Google Sheets import is not configured", nil)
		return
	}
	var req ImportSheetsRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := req.SpreadsheetID
	if id == "" {
		id = h.SpreadsheetID
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "spreadsheetId is required", nil)
		return
	}

	tables, err := sheetsclient.ReadTables(r.Context(), h.Sheets, id)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read spreadsheet", err)
		return
	}
	h.importTables(w, r, tables, req.DefaultSector)
}

func (h *Handler) importTables(w http.ResponseWriter, r *http.Request, tables []importer.Table, defaultSector string) {
	result, err := services.ImportShifts(r.Context(), h.Store, h.Logger, tables, defaultSector)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Tables: result.Tables, Rows: result.Rows})
}

// Seed adds workers from a sector → names map
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if !h.decode(w, r, &req) {
		return
	}
	shift := req.Shift
	if shift == "" {
		shift = h.DefaultShift
	}

	result, err := services.SeedWorkers(r.Context(), h.Store, h.Logger, services.SeedFile(req.Sectors), shift)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SeedResponse{Added: result.Added, Existing: result.Existing})
}

// DBStatus runs a connection test
func (h *Handler) DBStatus(w http.ResponseWriter, r *http.Request) {
	resp := DBStatusResponse{OK: true, Target: h.DBTarget}
	status := http.StatusOK
	if err := h.Store.Ping(r.Context()); err != nil {
		resp.OK = false
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (h *Handler) reportRows(w http.ResponseWriter, r *http.Request) (db.ReportFilter, []db.ReportRow, bool) {
	q := r.URL.Query()
	start, end, err := h.queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return db.ReportFilter{}, nil, false
	}
	filter := db.ReportFilter{Start: start, End: end, Sector: q.Get("sector"), Shift: q.Get("shift")}
	if filter.Sector != "" && !model.IsValidSector(filter.Sector) {
		writeError(w, http.StatusBadRequest, "Unknown sector", fmt.Errorf("sector %q", filter.Sector))
		return db.ReportFilter{}, nil, false
	}

	rows, err := services.Report(r.Context(), h.Store, h.Logger, filter)
	if err != nil {
		h.writeServiceError(w, err)
		return db.ReportFilter{}, nil, false
	}
	return filter, rows, true
}

// GetReport returns flat attendance rows as JSON
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}
	out := make([]ReportRowDTO, len(rows))
	for i, row := range rows {
		out[i] = ReportRowDTO{
			Worker:      row.Worker,
			Date:        period.ISO(row.Date),
			Status:      row.Status,
			Sector:      row.Sector,
			Shift:       row.Shift,
			SubmittedBy: row.SubmittedBy,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetReportCSV downloads the report as UTF-8 CSV
func (h *Handler) GetReportCSV(w http.ResponseWriter, r *http.Request) {
	filter, rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}
	setAttachment(w, "text/csv; charset=utf-8", export.FileName(filter.Sector, filter.Shift, filter.Start, filter.End, "csv"))
	if err := export.WriteCSV(w, rows); err != nil {
		h.Logger.Error("Failed to write csv report", zap.Error(err))
	}
}

// GetReportXLSX downloads the report as a workbook
func (h *Handler) GetReportXLSX(w http.ResponseWriter, r *http.Request) {
	filter, rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}
	setAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.FileName(filter.Sector, filter.Shift, filter.Start, filter.End, "xlsx"))
	if err := export.WriteXLSX(w, rows); err != nil {
		h.Logger.Error("Failed to write xlsx report", zap.Error(err))
	}
}

// GetSummary returns per-worker status counts and presence rates
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}
	summaries := services.Summarize(rows)
	out := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = SummaryDTO{
			Worker:       s.Worker,
			Sector:       s.Sector,
			Counts:       s.Counts,
			Recorded:     s.Recorded,
			Present:      s.Present,
			PresenceRate: s.PresenceRate.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var batchErr *db.BatchError
	switch {
	case errors.As(err, &batchErr):
		h.Logger.Warn("Save rolled back", zap.Error(err))
		writeJSON(w, http.StatusConflict, BatchErrorResponse{
			Error:      "Save rolled back, no changes were applied",
			Details:    batchErr.Err.Error(),
			FailedRow:  batchErr.Index,
			NotApplied: len(batchErr.NotApplied),
		})
	case errors.Is(err, db.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, "Worker not found", err)
	case errors.Is(err, importer.ErrSectorRequired),
		errors.Is(err, importer.ErrUnknownSector),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, model.ErrUnknownShift),
		errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		h.Logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
