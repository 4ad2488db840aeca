package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

var errBoom = errors.New("boom")

type storedRecord struct {
	Status      string
	Sector      string
	Shift       string
	SubmittedBy string
}

// fakeStore is an in-memory db.Database with the same change-detection and
// all-or-nothing semantics as the postgres implementation
type fakeStore struct {
	leaders   map[string]int64
	workers   []db.Worker
	records   map[db.AttendanceKey]storedRecord
	applyLog  []db.ApplyResult
	failAt    int // index of the change that fails, -1 for none
	listErr   error
	upsertErr error
	upserts   []db.ShiftAssignment
}

func newFakeStore(workers ...db.Worker) *fakeStore {
	return &fakeStore{
		leaders: make(map[string]int64),
		workers: workers,
		records: make(map[db.AttendanceKey]storedRecord),
		failAt:  -1,
	}
}

func (f *fakeStore) FindOrCreateLeader(ctx context.Context, name, sector, shift string) (int64, error) {
	key := strings.TrimSpace(name) + "|" + sector + "|" + shift
	if id, ok := f.leaders[key]; ok {
		return id, nil
	}
	id := int64(len(f.leaders) + 1)
	f.leaders[key] = id
	return id, nil
}

func (f *fakeStore) ListWorkers(ctx context.Context, q db.WorkerQuery) ([]db.Worker, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
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
	f.workers = append(f.workers, db.Worker{ID: id, Name: name, Sector: sector, Shift: model.NormalizeShift(shift), Active: true})
	return id, nil
}

func (f *fakeStore) SetWorkersActive(ctx context.Context, deactivate, activate []int64) error {
	set := func(ids []int64, active bool) {
		for _, id := range ids {
			for i := range f.workers {
				if f.workers[i].ID == id {
					f.workers[i].Active = active
				}
			}
		}
	}
	set(deactivate, false)
	set(activate, true)
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
	for i := range f.workers {
		if f.workers[i].Name == name && f.workers[i].Sector == sector {
			f.workers[i].Shift = shift
			f.workers[i].Active = true
			return false, nil
		}
	}
	_, err := f.AddWorker(ctx, name, sector, shift)
	return true, err
}

func (f *fakeStore) UpsertWorkerShifts(ctx context.Context, assignments []db.ShiftAssignment) (int, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	for _, a := range assignments {
		if _, err := f.UpsertWorkerShift(ctx, a.Name, a.Sector, a.Shift); err != nil {
			return 0, err
		}
	}
	f.upserts = append(f.upserts, assignments...)
	return len(assignments), nil
}

func (f *fakeStore) LoadAttendance(ctx context.Context, ids []int64, start, end time.Time) (map[db.AttendanceKey]string, error) {
	out := make(map[db.AttendanceKey]string)
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	from, to := start.Format("2006-01-02"), end.Format("2006-01-02")
	for k, r := range f.records {
		if wanted[k.WorkerID] && k.Date >= from && k.Date <= to {
			out[k] = r.Status
		}
	}
	return out, nil
}

func (f *fakeStore) ApplyAttendance(ctx context.Context, changes []db.AttendanceChange) (db.ApplyResult, error) {
	staged := make(map[db.AttendanceKey]storedRecord, len(f.records))
	for k, v := range f.records {
		staged[k] = v
	}

	var res db.ApplyResult
	for i, c := range changes {
		if i == f.failAt {
			return db.ApplyResult{}, &db.BatchError{Index: i, Failed: c, NotApplied: changes, Err: errBoom}
		}
		key := c.Key()
		if c.IsDelete() {
			if _, ok := staged[key]; ok {
				delete(staged, key)
				res.Deleted++
			}
			continue
		}
		next := storedRecord{Status: c.Status, Sector: c.Sector, Shift: c.Shift, SubmittedBy: c.SubmittedBy}
		if prev, ok := staged[key]; ok && prev == next {
			res.Skipped++
			continue
		}
		staged[key] = next
		res.Written++
	}

	f.records = staged
	f.applyLog = append(f.applyLog, res)
	return res, nil
}

func (f *fakeStore) Report(ctx context.Context, filter db.ReportFilter) ([]db.ReportRow, error) {
	names := make(map[int64]string, len(f.workers))
	for _, w := range f.workers {
		names[w.ID] = w.Name
	}
	var rows []db.ReportRow
	for k, r := range f.records {
		d, _ := time.Parse("2006-01-02", k.Date)
		if d.Before(filter.Start) || d.After(filter.End) {
			continue
		}
		if filter.Sector != "" && r.Sector != filter.Sector {
			continue
		}
		if filter.Shift != "" && r.Shift != filter.Shift {
			continue
		}
		rows = append(rows, db.ReportRow{Worker: names[k.WorkerID], Date: d, Status: r.Status, Sector: r.Sector, Shift: r.Shift, SubmittedBy: r.SubmittedBy})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Worker != rows[j].Worker {
			return rows[i].Worker < rows[j].Worker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) Close() {}

var _ db.Database = (*fakeStore)(nil)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
