package db

import (
	"context"
	"time"
)

// LeaderStore defines the interface for leader database operations
type LeaderStore interface {
	FindOrCreateLeader(ctx context.Context, name, sector, shift string) (int64, error)
}

// WorkerStore defines the interface for worker database operations
type WorkerStore interface {
	ListWorkers(ctx context.Context, query WorkerQuery) ([]Worker, error)
	AddWorker(ctx context.Context, name, sector, shift string) (int64, error)
	SetWorkersActive(ctx context.Context, deactivate, activate []int64) error
	UpdateWorkerShift(ctx context.Context, id int64, shift string) error
	UpsertWorkerShift(ctx context.Context, name, sector, shift string) (bool, error)
	UpsertWorkerShifts(ctx context.Context, assignments []ShiftAssignment) (int, error)
}

// AttendanceStore defines the interface for attendance database operations
type AttendanceStore interface {
	LoadAttendance(ctx context.Context, workerIDs []int64, start, end time.Time) (map[AttendanceKey]string, error)
	ApplyAttendance(ctx context.Context, changes []AttendanceChange) (ApplyResult, error)
}

// ReportStore defines the interface for the flat attendance report
type ReportStore interface {
	Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	LeaderStore
	WorkerStore
	AttendanceStore
	ReportStore
	Ping(ctx context.Context) error
	Close()
}
