package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/services"
	"github.com/logistica/presencas/pkg/db"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testApp(today time.Time) *AppContext {
	return &AppContext{Now: func() time.Time { return today }}
}

func TestParseMarks(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []mark
		wantErr bool
	}{
		{
			name: "statuses are upper-cased",
			args: []string{"Ana Souza=presente", "Bruno Lima=FÉRIAS"},
			want: []mark{{worker: "Ana Souza", status: "PRESENTE"}, {worker: "Bruno Lima", status: "FÉRIAS"}},
		},
		{
			name: "empty status clears",
			args: []string{"Ana Souza="},
			want: []mark{{worker: "Ana Souza", status: ""}},
		},
		{
			name: "last equals sign splits",
			args: []string{"Nome=Estranho=SIN REC"},
			want: []mark{{worker: "Nome=Estranho", status: "SIN REC"}},
		},
		{name: "missing equals", args: []string{"Ana Souza"}, wantErr: true},
		{name: "missing name", args: []string{"=FALTA"}, wantErr: true},
		{name: "unknown status", args: []string{"Ana Souza=TALVEZ"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMarks(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: `mark --sector Tecido "Ana Souza=PRESENTE"`, want: []string{"mark", "--sector", "Tecido", "Ana Souza=PRESENTE"}},
		{line: `vacation 'Bruno Lima' --by "" x`, want: []string{"vacation", "Bruno Lima", "--by", "", "x"}},
		{line: "   ", want: nil},
		{line: `mark "Ana`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSector(t *testing.T) {
	sector, err := resolveSector("Expedição")
	require.NoError(t, err)
	assert.Equal(t, "Expedição", sector)

	sector, err = resolveSector("expedicao")
	require.NoError(t, err)
	assert.Equal(t, "Expedição", sector)

	_, err = resolveSector("Cozinha")
	assert.Error(t, err)
}

func TestResolveShiftFilter(t *testing.T) {
	shift, err := resolveShiftFilter("")
	require.NoError(t, err)
	assert.Equal(t, "-", shift)

	shift, err = resolveShiftFilter("2º")
	require.NoError(t, err)
	assert.Equal(t, "2°", shift)
}

func TestDateRange(t *testing.T) {
	app := testApp(day(2025, 3, 10))

	start, end, err := app.dateRange("", "")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 2, 16), start)
	assert.Equal(t, day(2025, 3, 15), end)

	start, end, err = app.dateRange("01/03/2025", "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 1), start)
	assert.Equal(t, day(2025, 3, 5), end)

	_, _, err = app.dateRange("2025-03-05", "2025-03-01")
	assert.Error(t, err)
}

func TestCheckFillable(t *testing.T) {
	app := testApp(day(2025, 3, 20))

	assert.NoError(t, app.checkFillable(day(2025, 3, 16)))
	assert.NoError(t, app.checkFillable(day(2025, 4, 2)))
	assert.Error(t, app.checkFillable(day(2025, 3, 15)))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "12"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 12}, ids)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"abc"})
	assert.Error(t, err)
}

func TestRenderGrid(t *testing.T) {
	workers := []db.Worker{
		{ID: 1, Name: "Ana Souza", Sector: "Tecido", Shift: "1°", Active: true},
		{ID: 2, Name: "Bruno Lima", Sector: "Tecido", Shift: "2°", Active: true},
	}
	g := grid.BuildWithShifts(workers, day(2025, 3, 20), day(2025, 3, 21))
	g.Set("Ana Souza", day(2025, 3, 20), "PRESENTE")
	g.Set("Bruno Lima", day(2025, 3, 21), "FALTA")

	var buf bytes.Buffer
	renderGrid(&buf, g)

	want := "" +
		"Colaborador  Turno          20/03     21/03\n" +
		"Ana Souza    1°             PRESENTE  .\n" +
		"Bruno Lima   2°             .         FALTA\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, []services.WorkerSummary{
		{Worker: "Ana Souza", Sector: "Tecido", Recorded: 3, Present: 2, PresenceRate: decimal.RequireFromString("0.67")},
	})
	assert.Contains(t, buf.String(), "Ana Souza")
	assert.Contains(t, buf.String(), "67%")

	buf.Reset()
	printSummary(&buf, nil)
	assert.Contains(t, buf.String(), "No attendance recorded")
}
