package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/db"
	"github.com/logistica/presencas/pkg/importer"
)

func TestImportShifts_ReactivatesAndCreates(t *testing.T) {
	store := newFakeStore(db.Worker{ID: 1, Name: "Ana Souza", Sector: "Tecido", Shift: "1°", Active: false})

	tables := []importer.Table{{Name: "TECIDO", Rows: [][]string{
		{"NOME COMPLETO", "TURNO"},
		{"Ana Souza", "3º"},
		{"Bruno Lima", "2°"},
	}}}

	res, err := ImportShifts(context.Background(), store, zap.NewNop(), tables, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.Tables)

	require.Len(t, store.workers, 2)
	assert.True(t, store.workers[0].Active)
	assert.Equal(t, "3°", store.workers[0].Shift)
	assert.Equal(t, "Bruno Lima", store.workers[1].Name)
}

func TestImportShifts_NoPartialCommit(t *testing.T) {
	store := newFakeStore()

	tables := []importer.Table{
		{Name: "Tecido", Rows: [][]string{{"NOME", "TURNO"}, {"Ana", "1°"}}},
		{Name: "Planilha2", Rows: [][]string{{"NOME", "TURNO"}, {"Bruno", "1°"}}},
	}

	_, err := ImportShifts(context.Background(), store, zap.NewNop(), tables, "")
	assert.ErrorIs(t, err, importer.ErrSectorRequired)
	assert.Empty(t, store.workers)
}

func TestImportShifts_StoreError(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errBoom

	tables := []importer.Table{{Name: "PAF", Rows: [][]string{{"NOME", "TURNO"}, {"Ana", "1°"}}}}
	_, err := ImportShifts(context.Background(), store, zap.NewNop(), tables, "")
	assert.ErrorIs(t, err, errBoom)
}

func TestImportShifts_NothingRecognised(t *testing.T) {
	store := newFakeStore()

	tables := []importer.Table{{Name: "PAF", Rows: [][]string{{"Colaborador"}, {"Ana"}}}}
	res, err := ImportShifts(context.Background(), store, zap.NewNop(), tables, "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
	assert.Empty(t, store.upserts)
}
