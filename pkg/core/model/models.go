package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownShift is returned by ParseShift in strict mode
var ErrUnknownShift = errors.New("unrecognised shift")

// Sector names as stored in the database
const (
	SectorAviamento    = "Aviamento"
	SectorTecido       = "Tecido"
	SectorDistribuicao = "Distribuição"
	SectorAlmoxarifado = "Almoxarifado"
	SectorPAF          = "PAF"
	SectorRecebimento  = "Recebimento"
	SectorExpedicao    = "Expedição"
	SectorEcommerce    = "E-commerce"
)

// Sectors lists every sector in display order
var Sectors = []string{
	SectorAviamento,
	SectorTecido,
	SectorDistribuicao,
	SectorAlmoxarifado,
	SectorPAF,
	SectorRecebimento,
	SectorExpedicao,
	SectorEcommerce,
}

// Canonical shift codes
const (
	ShiftFirst        = "1°"
	ShiftSecond       = "2°"
	ShiftThird        = "3°"
	ShiftSingle       = "ÚNICO"
	ShiftIntermediate = "INTERMEDIARIO"

	// ShiftUnset is recorded when a grid is saved from the "all shifts" view
	// and the row carries no shift of its own
	ShiftUnset = "-"
)

// Shifts lists the canonical shift codes
var Shifts = []string{ShiftFirst, ShiftSecond, ShiftThird, ShiftSingle, ShiftIntermediate}

// Attendance statuses offered to supervisors. The empty status means "no record".
const (
	StatusNone        = ""
	StatusPresent     = "PRESENTE"
	StatusHourBank    = "BH"
	StatusLate        = "ATRASADO"
	StatusAbsent      = "FALTA"
	StatusVacation    = "FÉRIAS"
	StatusSickNote    = "ATESTADO"
	StatusLeave       = "AFASTADO"
	StatusBirthday    = "ANIVERSÁRIO"
	StatusEarlyLeave  = "SAIDA ANTC"
	StatusSinEcom     = "SIN ECOM"
	StatusSinDist     = "SIN DIST"
	StatusSinAvi      = "SIN AVI"
	StatusSinRec      = "SIN REC"
	StatusSinExp      = "SIN EXP"
	StatusSinAlm      = "SIN ALM"
	StatusSinTec      = "SIN TEC"
	StatusDayOff      = "DSR"
	StatusTraining    = "CURSO"
	StatusTerminated  = "DESLIGADO"
	StatusPlaceholder = "-"
)

// Statuses lists every selectable status, including the empty one
var Statuses = []string{
	StatusNone, StatusPresent, StatusHourBank, StatusLate, StatusAbsent, StatusVacation,
	StatusSickNote, StatusLeave, StatusBirthday, StatusEarlyLeave,
	StatusSinEcom, StatusSinDist, StatusSinAvi, StatusSinRec, StatusSinExp,
	StatusSinAlm, StatusSinTec, StatusDayOff, StatusTraining, StatusTerminated, StatusPlaceholder,
}

// sectorRedirects maps a "SIN" status to the sector the worker effectively worked in
var sectorRedirects = map[string]string{
	StatusSinEcom: SectorEcommerce,
	StatusSinDist: SectorDistribuicao,
	StatusSinAvi:  SectorAviamento,
	StatusSinRec:  SectorRecebimento,
	StatusSinExp:  SectorExpedicao,
	StatusSinAlm:  SectorAlmoxarifado,
	StatusSinTec:  SectorTecido,
}

// IsValidStatus reports whether s is one of the selectable statuses
func IsValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidSector reports whether s is a canonical sector name
func IsValidSector(s string) bool {
	for _, sector := range Sectors {
		if s == sector {
			return true
		}
	}
	return false
}

// IsValidShift reports whether s is a canonical shift code
func IsValidShift(s string) bool {
	for _, shift := range Shifts {
		if s == shift {
			return true
		}
	}
	return false
}

// RedirectSector returns the sector a redirect status points to
func RedirectSector(status string) (string, bool) {
	sector, ok := sectorRedirects[status]
	return sector, ok
}

// EffectiveSector returns the sector to record for a status: the redirect target
// for "SIN" statuses, the worker's own sector otherwise
func EffectiveSector(status, homeSector string) string {
	if sector, ok := sectorRedirects[status]; ok {
		return sector
	}
	return homeSector
}

// StrictShifts makes ParseShift reject unrecognised shift strings instead of
// falling back to the first shift
var StrictShifts = false

// ParseShift normalises a shift string. Unrecognised input falls back to "1°"
// unless StrictShifts is set, in which case an error is returned.
func ParseShift(s string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.ReplaceAll(t, "º", "°")
	switch t {
	case "UNICO":
		t = ShiftSingle
	case "INTERMEDIÁRIO":
		t = ShiftIntermediate
	}

	if IsValidShift(t) {
		return t, nil
	}
	if StrictShifts {
		return "", fmt.Errorf("%w %q", ErrUnknownShift, s)
	}
	return ShiftFirst, nil
}

// NormalizeShift is ParseShift with the permissive fallback always applied
func NormalizeShift(s string) string {
	shift, err := ParseShift(s)
	if err != nil {
		return ShiftFirst
	}
	return shift
}

// sectorAliases maps upper-cased spreadsheet spellings to sector names
var sectorAliases = map[string]string{
	"AVIAMENTO":    SectorAviamento,
	"TECIDO":       SectorTecido,
	"DISTRIBUICAO": SectorDistribuicao,
	"DISTRIBUIÇÃO": SectorDistribuicao,
	"ALMOXARIFADO": SectorAlmoxarifado,
	"PAF":          SectorPAF,
	"RECEBIMENTO":  SectorRecebimento,
	"EXPEDICAO":    SectorExpedicao,
	"EXPEDIÇÃO":    SectorExpedicao,
	"E-COMMERCE":   SectorEcommerce,
	"ECOMMERCE":    SectorEcommerce,
	"E COMMERCE":   SectorEcommerce,
}

// NormalizeSector maps a sheet name or SETOR cell to a canonical sector
func NormalizeSector(s string) (string, bool) {
	sector, ok := sectorAliases[strings.ToUpper(strings.TrimSpace(s))]
	return sector, ok
}
