package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/logistica/presencas/pkg/db"
)

func sampleRows() []db.ReportRow {
	return []db.ReportRow{
		{Worker: "João Silva", Date: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), Status: "FÉRIAS", Sector: "Expedição", Shift: "1°", SubmittedBy: "Lider"},
		{Worker: "Ana, a segunda", Date: time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), Status: "PRESENTE", Sector: "Tecido", Shift: "ÚNICO"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "colaborador,data,status,setor,turno,submetido_por", lines[0])
	assert.Equal(t, "João Silva,2025-03-16,FÉRIAS,Expedição,1°,Lider", lines[1])
	assert.Equal(t, `"Ana, a segunda",2025-03-17,PRESENTE,Tecido,ÚNICO,`, lines[2])
}

func TestFileName(t *testing.T) {
	start := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		sector, shift, ext, want string
	}{
		{"", "", "csv", "presencas_todos_setores_todos_turnos_2025-03-16_2025-04-15.csv"},
		{"Tecido", "-", ".csv", "presencas_Tecido_todos_turnos_2025-03-16_2025-04-15.csv"},
		{"E-commerce", "2°", "xlsx", "presencas_E-commerce_2°_2025-03-16_2025-04-15.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.sector, tt.shift, start, end, tt.ext))
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "João Silva", rows[1][0])
	assert.Equal(t, "Expedição", rows[1][3])
	assert.Equal(t, "ÚNICO", rows[2][4])
}
