package sheetsclient

import (
	"context"
	"fmt"

	"github.com/logistica/presencas/pkg/importer"
)

// ValuesReader is the subset of Client used to read shift tabs
type ValuesReader interface {
	ListTabs(ctx context.Context, spreadsheetID string) ([]string, error)
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// ReadTables reads every tab of a shift spreadsheet as an importer table named after the tab
func ReadTables(ctx context.Context, reader ValuesReader, spreadsheetID string) ([]importer.Table, error) {
	tabs, err := reader.ListTabs(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	tables := make([]importer.Table, 0, len(tabs))
	for _, tab := range tabs {
		values, err := reader.GetValues(ctx, spreadsheetID, fmt.Sprintf("'%s'", tab))
		if err != nil {
			return nil, fmt.Errorf("failed to read tab %q: %w", tab, err)
		}
		tables = append(tables, importer.Table{Name: tab, Rows: toRows(values)})
	}
	return tables, nil
}

func toRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return rows
}
