package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistica/presencas/pkg/db"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testWorkers() []db.Worker {
	return []db.Worker{
		{ID: 1, Name: "Ana Souza", Sector: "Tecido", Shift: "1°", Active: true},
		{ID: 2, Name: "Bruno Lima", Sector: "Tecido", Shift: "2°", Active: true},
	}
}

func TestBuild(t *testing.T) {
	g := Build(testWorkers(), day(2025, 3, 1), day(2025, 3, 3))

	require.Len(t, g.Dates, 3)
	require.Len(t, g.Rows, 2)
	assert.False(t, g.HasShift)
	assert.Equal(t, "Ana Souza", g.Rows[0].Worker)
	assert.Equal(t, "Tecido", g.Rows[0].Sector)
	assert.Empty(t, g.Rows[0].Shift)
	assert.Len(t, g.Rows[0].Cells, 3)
	for _, status := range g.Rows[1].Cells {
		assert.Empty(t, status)
	}
}

func TestBuildWithShifts(t *testing.T) {
	g := BuildWithShifts(testWorkers(), day(2025, 3, 1), day(2025, 3, 1))

	assert.True(t, g.HasShift)
	assert.Equal(t, "1°", g.Rows[0].Shift)
	assert.Equal(t, "2°", g.Rows[1].Shift)
}

func TestBuild_NoWorkers(t *testing.T) {
	g := Build(nil, day(2025, 3, 1), day(2025, 3, 2))
	assert.Len(t, g.Dates, 2)
	assert.Empty(t, g.Rows)
	assert.Empty(t, Melt(g, map[string]int64{}))
}

func TestMergeExisting(t *testing.T) {
	workers := testWorkers()
	ids := IDByName(workers)
	g := Build(workers, day(2025, 3, 1), day(2025, 3, 2))

	attendance := map[db.AttendanceKey]string{
		db.NewAttendanceKey(1, day(2025, 3, 2)):  "FALTA",
		db.NewAttendanceKey(2, day(2025, 3, 1)):  "PRESENTE",
		db.NewAttendanceKey(99, day(2025, 3, 1)): "BH",
	}
	MergeExisting(g, attendance, ids)

	status, ok := g.Cell("Ana Souza", day(2025, 3, 1))
	assert.True(t, ok)
	assert.Empty(t, status)

	status, _ = g.Cell("Ana Souza", day(2025, 3, 2))
	assert.Equal(t, "FALTA", status)

	status, _ = g.Cell("Bruno Lima", day(2025, 3, 1))
	assert.Equal(t, "PRESENTE", status)
}

func TestMelt(t *testing.T) {
	workers := testWorkers()
	g := BuildWithShifts(workers, day(2025, 3, 1), day(2025, 3, 2))
	g.Set("Ana Souza", day(2025, 3, 1), "  PRESENTE ")
	g.Set("Bruno Lima", day(2025, 3, 2), "SIN ECOM")

	entries := Melt(g, IDByName(workers))
	require.Len(t, entries, 4)

	// date-major order
	assert.Equal(t, day(2025, 3, 1), entries[0].Date)
	assert.Equal(t, int64(1), entries[0].WorkerID)
	assert.Equal(t, "PRESENTE", entries[0].Status)
	assert.Equal(t, "1°", entries[0].Shift)

	assert.Equal(t, day(2025, 3, 1), entries[1].Date)
	assert.Empty(t, entries[1].Status)

	assert.Equal(t, day(2025, 3, 2), entries[3].Date)
	assert.Equal(t, "Bruno Lima", entries[3].Worker)
	assert.Equal(t, "SIN ECOM", entries[3].Status)
	assert.Equal(t, "Tecido", entries[3].Sector)
}

func TestMelt_DropsUnknownWorkers(t *testing.T) {
	workers := testWorkers()
	g := Build(workers, day(2025, 3, 1), day(2025, 3, 1))

	entries := Melt(g, map[string]int64{"Bruno Lima": 2})
	require.Len(t, entries, 1)
	assert.Equal(t, "Bruno Lima", entries[0].Worker)
}

func TestSet_OutsideGrid(t *testing.T) {
	g := Build(testWorkers(), day(2025, 3, 1), day(2025, 3, 1))
	assert.False(t, g.Set("Ana Souza", day(2025, 4, 1), "FALTA"))
	assert.False(t, g.Set("Nobody", day(2025, 3, 1), "FALTA"))
	assert.True(t, g.Set("Ana Souza", day(2025, 3, 1), "FALTA"))
}

func TestNewlyMarked(t *testing.T) {
	workers := append(testWorkers(), db.Worker{ID: 3, Name: "Carla Dias", Sector: "Tecido", Shift: "1°"})
	ids := IDByName(workers)
	d := day(2025, 3, 10)
	g := BuildWithShifts(workers, d, d)

	g.Set("Ana Souza", d, "FÉRIAS")
	g.Set("Bruno Lima", d, "FÉRIAS")
	g.Set("Carla Dias", d, "PRESENTE")

	attendance := map[db.AttendanceKey]string{
		db.NewAttendanceKey(2, d): "FÉRIAS",
	}

	assert.Equal(t, []string{"Ana Souza"}, NewlyMarked(g, attendance, ids, d, "FÉRIAS"))
	assert.Empty(t, NewlyMarked(g, attendance, ids, d, "ATESTADO"))
}

func TestHelpers(t *testing.T) {
	workers := testWorkers()
	assert.Equal(t, map[string]int64{"Ana Souza": 1, "Bruno Lima": 2}, IDByName(workers))
	assert.Equal(t, map[string]string{"Ana Souza": "1°", "Bruno Lima": "2°"}, ShiftsByName(workers))
	assert.Equal(t, []int64{1, 2}, WorkerIDs(workers))
}
