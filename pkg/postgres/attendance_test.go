package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/logistica/presencas/pkg/db"
)

func TestClassify(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	err := classify(fk)
	assert.ErrorIs(t, err, db.ErrWorkerNotFound)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))

	other := &pgconn.PgError{Code: "22001"}
	assert.Equal(t, error(other), classify(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classify(plain))
}

func TestBatchError(t *testing.T) {
	date := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	changes := []db.AttendanceChange{
		{WorkerID: 1, Date: date, Status: "PRESENTE"},
		{WorkerID: 2, Date: date, Status: "FALTA"},
	}
	cause := errors.New("boom")

	err := batchError(changes, 1, cause)
	assert.Equal(t, 1, err.Index)
	assert.Equal(t, changes[1], err.Failed)
	assert.Equal(t, changes, err.NotApplied)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "row 1 (worker_id=2, date=2025-03-20); 2 changes not applied")

	// the copy is independent of the caller's slice
	changes[0].Status = "FALTA"
	assert.Equal(t, "PRESENTE", err.NotApplied[0].Status)
}
