// Package export writes attendance reports as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/logistica/presencas/pkg/db"
)

// Header is the column header of every report export
var Header = []string{"colaborador", "data", "status", "setor", "turno", "submetido_por"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes rows as UTF-8 CSV with a byte order mark so spreadsheet
// applications detect the encoding
func WriteCSV(w io.Writer, rows []db.ReportRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(r db.ReportRow) []string {
	return []string{r.Worker, r.Date.Format("2006-01-02"), r.Status, r.Sector, r.Shift, r.SubmittedBy}
}

// FileName returns the download name of a report, e.g.
// presencas_Tecido_todos_turnos_2025-03-16_2025-04-15.csv
func FileName(sector, shift string, start, end time.Time, ext string) string {
	if sector == "" {
		sector = "todos_setores"
	}
	if shift == "" || shift == "-" {
		shift = "todos_turnos"
	}
	return fmt.Sprintf("presencas_%s_%s_%s_%s.%s",
		safe(sector), safe(shift), start.Format("2006-01-02"), end.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}

func safe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, s)
}
