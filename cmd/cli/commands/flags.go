package commands

import (
	"fmt"
	"time"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/period"
)

// dateRange parses --start/--end, defaulting both to the current pay period
func (app *AppContext) dateRange(startStr, endStr string) (time.Time, time.Time, error) {
	current := period.For(app.today())
	start, end := current.Start, current.End

	var err error
	if startStr != "" {
		if start, err = period.ParseDate(startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		if end, err = period.ParseDate(endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", period.ISO(end), period.ISO(start))
	}
	return start, end, nil
}

// resolveSector accepts canonical names and spreadsheet spellings ("EXPEDICAO")
func resolveSector(s string) (string, error) {
	if model.IsValidSector(s) {
		return s, nil
	}
	if sector, ok := model.NormalizeSector(s); ok {
		return sector, nil
	}
	return "", fmt.Errorf("unknown sector %q (one of %v)", s, model.Sectors)
}

// resolveShiftFilter accepts a shift code or "-"/"" for every shift
func resolveShiftFilter(s string) (string, error) {
	if s == "" || s == model.ShiftUnset {
		return model.ShiftUnset, nil
	}
	return model.ParseShift(s)
}
