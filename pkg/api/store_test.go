package api

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/logistica/presencas/pkg/db"
)

var errBoom = errors.New("boom")

// fakeStore is a minimal in-memory db.Database for handler tests
type fakeStore struct {
	workers  []db.Worker
	records  map[db.AttendanceKey]db.AttendanceChange
	applied  [][]db.AttendanceChange
	applyErr error
	pingErr  error
	upserts  []db.ShiftAssignment
}

func newFakeStore(workers ...db.Worker) *fakeStore {
	return &fakeStore{workers: workers, records: make(map[db.AttendanceKey]db.AttendanceChange)}
}

func (f *fakeStore) FindOrCreateLeader(ctx context.Context, name, sector, shift string) (int64, error) {
	return 1, nil
}

func (f *fakeStore) ListWorkers(ctx context.Context, q db.WorkerQuery) ([]db.Worker, error) {
	var out []db.Worker
	for _, w := range f.workers {
		if q.Sector != "" && w.Sector != q.Sector {
			continue
		}
		if q.Shift != "" && w.Shift != q.Shift {
			continue
		}
		if q.ActiveOnly && !w.Active {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) AddWorker(ctx context.Context, name, sector, shift string) (int64, error) {
	id := int64(len(f.workers) + 1)
	f.workers = append(f.workers, db.Worker{ID: id, Name: name, Sector: sector, Shift: shift, Active: true})
	return id, nil
}

func (f *fakeStore) SetWorkersActive(ctx context.Context, deactivate, activate []int64) error {
	return nil
}

func (f *fakeStore) UpdateWorkerShift(ctx context.Context, id int64, shift string) error {
	for i := range f.workers {
		if f.workers[i].ID == id {
			f.workers[i].Shift = shift
			return nil
		}
	}
	return db.ErrWorkerNotFound
}

func (f *fakeStore) UpsertWorkerShift(ctx context.Context, name, sector, shift string) (bool, error) {
	f.upserts = append(f.upserts, db.ShiftAssignment{Name: name, Sector: sector, Shift: shift})
	return true, nil
}

func (f *fakeStore) UpsertWorkerShifts(ctx context.Context, assignments []db.ShiftAssignment) (int, error) {
	f.upserts = append(f.upserts, assignments...)
	return len(assignments), nil
}

func (f *fakeStore) LoadAttendance(ctx context.Context, ids []int64, start, end time.Time) (map[db.AttendanceKey]string, error) {
	out := make(map[db.AttendanceKey]string)
	for k, c := range f.records {
		out[k] = c.Status
	}
	return out, nil
}

func (f *fakeStore) ApplyAttendance(ctx context.Context, changes []db.AttendanceChange) (db.ApplyResult, error) {
	if f.applyErr != nil {
		return db.ApplyResult{}, f.applyErr
	}
	f.applied = append(f.applied, changes)
	var res db.ApplyResult
	for _, c := range changes {
		if c.IsDelete() {
			if _, ok := f.records[c.Key()]; ok {
				delete(f.records, c.Key())
				res.Deleted++
			}
			continue
		}
		if prev, ok := f.records[c.Key()]; ok && prev == c {
			res.Skipped++
			continue
		}
		f.records[c.Key()] = c
		res.Written++
	}
	return res, nil
}

func (f *fakeStore) Report(ctx context.Context, filter db.ReportFilter) ([]db.ReportRow, error) {
	names := make(map[int64]string)
	for _, w := range f.workers {
		names[w.ID] = w.Name
	}
	var rows []db.ReportRow
	for _, c := range f.records {
		rows = append(rows, db.ReportRow{Worker: names[c.WorkerID], Date: c.Date, Status: c.Status, Sector: c.Sector, Shift: c.Shift, SubmittedBy: c.SubmittedBy})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Worker != rows[j].Worker {
			return rows[i].Worker < rows[j].Worker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) Close() {}

var _ db.Database = (*fakeStore)(nil)
