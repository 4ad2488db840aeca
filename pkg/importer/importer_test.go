package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/logistica/presencas/pkg/db"
)

func TestAssignments(t *testing.T) {
	tests := []struct {
		name          string
		tables        []Table
		defaultSector string
		want          []db.ShiftAssignment
		wantErr       error
	}{
		{
			name: "sheet name as sector hint",
			tables: []Table{{Name: "EXPEDICAO", Rows: [][]string{
				{"Nome Completo", "Turno"},
				{" Ana Souza ", "2º"},
				{"", "1°"},
				{"Bruno Lima", "unico"},
			}}},
			want: []db.ShiftAssignment{
				{Name: "Ana Souza", Sector: "Expedição", Shift: "2°"},
				{Name: "Bruno Lima", Sector: "Expedição", Shift: "ÚNICO"},
			},
		},
		{
			name: "SETOR column wins over hint",
			tables: []Table{{Name: "Tecido", Rows: [][]string{
				{"NOME", "TURNO", "SETOR"},
				{"Carla Dias", "3°", "e commerce"},
				{"Davi Reis", "3°", ""},
			}}},
			want: []db.ShiftAssignment{
				{Name: "Carla Dias", Sector: "E-commerce", Shift: "3°"},
				{Name: "Davi Reis", Sector: "Tecido", Shift: "3°"},
			},
		},
		{
			name:          "default sector for csv",
			tables:        []Table{{Rows: [][]string{{"nome", "turno"}, {"Eva Melo", "x"}}}},
			defaultSector: "PAF",
			want:          []db.ShiftAssignment{{Name: "Eva Melo", Sector: "PAF", Shift: "1°"}},
		},
		{
			name: "unrecognised headers contribute nothing",
			tables: []Table{
				{Name: "Tecido", Rows: [][]string{{"Colaborador", "Horario"}, {"Ana", "1°"}}},
				{Name: "Vazia"},
			},
			want: nil,
		},
		{
			name:    "no sector anywhere",
			tables:  []Table{{Rows: [][]string{{"NOME", "TURNO"}, {"Ana", "1°"}}}},
			wantErr: ErrSectorRequired,
		},
		{
			name:    "unmapped SETOR value",
			tables:  []Table{{Rows: [][]string{{"NOME", "TURNO", "SETOR"}, {"Ana", "1°", "Marketing"}}}},
			wantErr: ErrUnknownSector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assignments(tt.tables, tt.defaultSector)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV_UTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("NOME;TURNO\nJoão;INTERMEDIÁRIO\n")...)

	table, err := ReadCSV(data, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"NOME", "TURNO"}, table.Rows[0])
	assert.Equal(t, []string{"João", "INTERMEDIÁRIO"}, table.Rows[1])
}

func TestReadCSV_Latin1(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("NOME,TURNO,SETOR\nJoão,1°,Distribuição\n")
	require.NoError(t, err)

	table, err := ReadCSV([]byte(latin1), "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "João", table.Rows[1][0])
	assert.Equal(t, "Distribuição", table.Rows[1][2])
}

func TestSniffSeparator(t *testing.T) {
	assert.Equal(t, ';', sniffSeparator([]byte("a;b;c\n1,2;3")))
	assert.Equal(t, '\t', sniffSeparator([]byte("a\tb\n")))
	assert.Equal(t, ',', sniffSeparator([]byte("single")))
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Tecido"))
	require.NoError(t, f.SetSheetRow("Tecido", "A1", &[]interface{}{"NOME COMPLETO", "TURNO"}))
	require.NoError(t, f.SetSheetRow("Tecido", "A2", &[]interface{}{"Ana Souza", "2°"}))
	_, err := f.NewSheet("Recebimento")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Recebimento", "A1", &[]interface{}{"NOME", "TURNO"}))
	require.NoError(t, f.SetSheetRow("Recebimento", "A2", &[]interface{}{"Bruno Lima", "3°"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tables, err := Read(bytes.NewReader(buf.Bytes()), "turnos.XLSX")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Tecido", tables[0].Name)

	got, err := Assignments(tables, "")
	require.NoError(t, err)
	assert.Equal(t, []db.ShiftAssignment{
		{Name: "Ana Souza", Sector: "Tecido", Shift: "2°"},
		{Name: "Bruno Lima", Sector: "Recebimento", Shift: "3°"},
	}, got)
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "turnos.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRead_CSVNamedAfterFile(t *testing.T) {
	tables, err := Read(strings.NewReader("NOME,TURNO\nAna Souza,1°\n"), "Expedicao.csv")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Expedicao", tables[0].Name)
	assert.Equal(t, "Expedição", tables[0].SectorHint())
}
