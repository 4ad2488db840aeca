// Package importer reads shift files (xlsx, csv or spreadsheet tabs) into tables
// and turns them into worker shift assignments.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

var (
	ErrSectorRequired    = errors.New("sector required: add a SETOR column or choose a default sector")
	ErrUnknownSector     = errors.New("unknown sector")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Table is one sheet or file. Rows[0] is the header row.
type Table struct {
	Name string
	Rows [][]string
}

// SectorHint returns the canonical sector named by the table, if any
func (t Table) SectorHint() string {
	if sector, ok := model.NormalizeSector(t.Name); ok {
		return sector
	}
	return ""
}

// ReadFile reads the tables of a shift file on disk
func ReadFile(path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read reads the tables of a shift file, choosing the parser from filename's extension
func Read(r io.Reader, filename string) ([]Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	ext := filepath.Ext(filename)
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data))
	case ".csv", ".txt":
		table, err := ReadCSV(data, strings.TrimSuffix(filepath.Base(filename), ext))
		if err != nil {
			return nil, err
		}
		return []Table{table}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

type columns struct {
	name   int
	shift  int
	sector int
}

// findColumns locates the recognised headers, case-insensitively. ok is false when the
// name or shift column is missing.
func findColumns(header []string) (columns, bool) {
	cols := columns{name: -1, shift: -1, sector: -1}
	nome := -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "NOME COMPLETO":
			cols.name = i
		case "NOME":
			nome = i
		case "TURNO":
			cols.shift = i
		case "SETOR":
			cols.sector = i
		}
	}
	if cols.name < 0 {
		cols.name = nome
	}
	return cols, cols.name >= 0 && cols.shift >= 0
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Assignments converts tables into shift assignments. Sector per row comes from the
// SETOR column, then the table's sector hint, then defaultSector. Tables without name
// and shift columns are skipped. Shifts are normalised.
func Assignments(tables []Table, defaultSector string) ([]db.ShiftAssignment, error) {
	var out []db.ShiftAssignment
	for _, t := range tables {
		if len(t.Rows) == 0 {
			continue
		}
		cols, ok := findColumns(t.Rows[0])
		if !ok {
			continue
		}
		hint := t.SectorHint()

		for i, row := range t.Rows[1:] {
			name := cell(row, cols.name)
			if name == "" {
				continue
			}

			sector := hint
			if sector == "" {
				sector = defaultSector
			}
			if raw := cell(row, cols.sector); raw != "" {
				mapped, ok := model.NormalizeSector(raw)
				if !ok {
					return nil, fmt.Errorf("%w %q in %s row %d", ErrUnknownSector, raw, tableLabel(t), i+2)
				}
				sector = mapped
			}
			if sector == "" {
				return nil, fmt.Errorf("%w (%s row %d)", ErrSectorRequired, tableLabel(t), i+2)
			}

			out = append(out, db.ShiftAssignment{
				Name:   name,
				Sector: sector,
				Shift:  model.NormalizeShift(cell(row, cols.shift)),
			})
		}
	}
	return out, nil
}

func tableLabel(t Table) string {
	if t.Name == "" {
		return "file"
	}
	return fmt.Sprintf("sheet %q", t.Name)
}
