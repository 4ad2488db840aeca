package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/db"
)

func TestReport(t *testing.T) {
	store := newFakeStore(
		db.Worker{ID: 1, Name: "Ana", Sector: "Tecido", Shift: "1°", Active: true},
		db.Worker{ID: 2, Name: "Bruno", Sector: "Tecido", Shift: "2°", Active: true},
	)
	store.records[db.NewAttendanceKey(1, day(2025, 3, 16))] = storedRecord{Status: "PRESENTE", Sector: "Tecido", Shift: "1°"}
	store.records[db.NewAttendanceKey(1, day(2025, 3, 17))] = storedRecord{Status: "SIN REC", Sector: "Recebimento", Shift: "1°"}
	store.records[db.NewAttendanceKey(2, day(2025, 3, 16))] = storedRecord{Status: "FALTA", Sector: "Tecido", Shift: "2°"}
	store.records[db.NewAttendanceKey(2, day(2025, 4, 16))] = storedRecord{Status: "FALTA", Sector: "Tecido", Shift: "2°"}

	ctx := context.Background()

	rows, err := Report(ctx, store, zap.NewNop(), db.ReportFilter{Start: day(2025, 3, 16), End: day(2025, 4, 15)})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = Report(ctx, store, zap.NewNop(), db.ReportFilter{Start: day(2025, 3, 16), End: day(2025, 4, 15), Sector: "Tecido", Shift: "-"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Report(ctx, store, zap.NewNop(), db.ReportFilter{Start: day(2025, 4, 15), End: day(2025, 3, 16)})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	rows := []db.ReportRow{
		{Worker: "Bruno", Date: day(2025, 3, 16), Status: "FALTA", Sector: "Tecido"},
		{Worker: "Ana", Date: day(2025, 3, 16), Status: "PRESENTE", Sector: "Tecido"},
		{Worker: "Ana", Date: day(2025, 3, 17), Status: "SIN REC", Sector: "Recebimento"},
		{Worker: "Ana", Date: day(2025, 3, 18), Status: "FÉRIAS", Sector: "Tecido"},
		{Worker: "Bruno", Date: day(2025, 3, 17), Status: "", Sector: "Tecido"},
	}

	summaries := Summarize(rows)
	require.Len(t, summaries, 2)

	ana := summaries[0]
	assert.Equal(t, "Ana", ana.Worker)
	assert.Equal(t, "Tecido", ana.Sector)
	assert.Equal(t, 3, ana.Recorded)
	assert.Equal(t, 2, ana.Present)
	assert.Equal(t, 1, ana.Counts["SIN REC"])
	assert.True(t, decimal.RequireFromString("0.67").Equal(ana.PresenceRate), ana.PresenceRate.String())

	bruno := summaries[1]
	assert.Equal(t, 1, bruno.Recorded)
	assert.True(t, bruno.PresenceRate.IsZero())
}

func TestIsPresence(t *testing.T) {
	for _, s := range []string{"PRESENTE", "ATRASADO", "BH", "SAIDA ANTC", "SIN TEC"} {
		assert.True(t, IsPresence(s), s)
	}
	for _, s := range []string{"FALTA", "FÉRIAS", "DSR", ""} {
		assert.False(t, IsPresence(s), s)
	}
}
