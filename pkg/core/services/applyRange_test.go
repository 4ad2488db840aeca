package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/db"
)

func TestApplyStatusOverRange_Vacation(t *testing.T) {
	workers := []db.Worker{
		{ID: 1, Name: "Ana", Sector: "Expedição", Shift: "1°", Active: true},
		{ID: 2, Name: "Bruno", Sector: "Expedição", Shift: "2°", Active: true},
	}
	store := newFakeStore(workers...)

	res, err := ApplyStatusOverRange(context.Background(), store, zap.NewNop(), ApplyRangeRequest{
		WorkerNames:   []string{"Ana", "Bruno"},
		ShiftsByName:  map[string]string{"Ana": "1°"},
		IDByName:      map[string]int64{"Ana": 1, "Bruno": 2},
		Start:         day(2025, 6, 1),
		End:           day(2025, 6, 3),
		Status:        "FÉRIAS",
		Sector:        "Expedição",
		FallbackShift: "3°",
		SubmittedBy:   "Lider",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Written)
	require.Len(t, store.records, 6)

	for key, rec := range store.records {
		assert.Equal(t, "FÉRIAS", rec.Status, key)
		assert.Equal(t, "Expedição", rec.Sector, key)
	}
	assert.Equal(t, "1°", store.records[db.NewAttendanceKey(1, day(2025, 6, 2))].Shift)
	assert.Equal(t, "3°", store.records[db.NewAttendanceKey(2, day(2025, 6, 2))].Shift)
}

func TestApplyStatusOverRange_NoNames(t *testing.T) {
	store := newFakeStore()

	res, err := ApplyStatusOverRange(context.Background(), store, zap.NewNop(), ApplyRangeRequest{
		Start: day(2025, 6, 1), End: day(2025, 6, 3), Status: "FÉRIAS",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Empty(t, store.applyLog)
	assert.Empty(t, store.leaders)
}
