package db

import (
	"fmt"
	"time"
)

// Leader represents the supervisor who submitted a day's attendance
type Leader struct {
	ID        int64
	Name      string
	Sector    string
	Shift     string
	CreatedAt time.Time
}

// Worker represents a tracked employee. Active=false is a soft delete.
type Worker struct {
	ID        int64
	Name      string
	Sector    string
	Shift     string
	Active    bool
	CreatedAt time.Time
}

// AttendanceRecord represents one worker's status on one calendar day.
// Sector is the sector the worker effectively worked in that day.
type AttendanceRecord struct {
	ID          int64
	WorkerID    int64
	Date        time.Time
	Status      string
	Sector      string
	Shift       string
	SubmittedBy string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// AttendanceKey identifies an attendance record. Date is formatted as YYYY-MM-DD.
type AttendanceKey struct {
	WorkerID int64
	Date     string
}

// NewAttendanceKey builds a key from a worker ID and a date
func NewAttendanceKey(workerID int64, date time.Time) AttendanceKey {
	return AttendanceKey{WorkerID: workerID, Date: date.Format("2006-01-02")}
}

// AttendanceChange is one row of a save batch. An empty Status deletes the record.
type AttendanceChange struct {
	WorkerID    int64
	Date        time.Time
	Status      string
	Sector      string
	Shift       string
	SubmittedBy string
}

// IsDelete reports whether the change clears the cell
func (c AttendanceChange) IsDelete() bool {
	return c.Status == ""
}

// Key returns the record key the change applies to
func (c AttendanceChange) Key() AttendanceKey {
	return NewAttendanceKey(c.WorkerID, c.Date)
}

// ApplyResult counts what a save batch did
type ApplyResult struct {
	Written int // inserted or updated
	Skipped int // upserts identical to the stored record
	Deleted int // cleared cells that had a record
}

// BatchError reports a save batch that was rolled back. No change in the batch was applied.
type BatchError struct {
	Index      int
	Failed     AttendanceChange
	NotApplied []AttendanceChange
	Err        error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("attendance batch rolled back at row %d (worker_id=%d, date=%s); %d changes not applied: %v",
		e.Index, e.Failed.WorkerID, e.Failed.Date.Format("2006-01-02"), len(e.NotApplied), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// ShiftAssignment is one row of a shift-file import
type ShiftAssignment struct {
	Name   string
	Sector string
	Shift  string
}

// WorkerQuery filters ListWorkers. Empty Sector or Shift means no filter on that column.
type WorkerQuery struct {
	Sector     string
	Shift      string
	ActiveOnly bool
}

// ReportFilter selects attendance rows for the report/export
type ReportFilter struct {
	Start  time.Time
	End    time.Time
	Sector string // optional
	Shift  string // optional
}

// ReportRow is one flat attendance row as exported to CSV
type ReportRow struct {
	Worker      string
	Date        time.Time
	Status      string
	Sector      string
	Shift       string
	SubmittedBy string
}
