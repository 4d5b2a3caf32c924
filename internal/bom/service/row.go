package service

import (
	"strings"

	"metalshop/internal/bom/model"
	"metalshop/internal/utils"
)

// ParseRow builds a Row from raw cells. It returns nil when the quantity is
// missing, not a number or not positive; such rows are dropped without an error.
func ParseRow(cells []string, rowIndex int, m model.Mapping) *model.Row {
	get := func(f model.Field) string {
		i, ok := m[f]
		if !ok || i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	qty, ok := utils.ParseNumber(get(model.FieldQuantity))
	if !ok || qty <= 0 {
		return nil
	}

	row := &model.Row{
		RowIndex:        rowIndex,
		Family:          get(model.FieldFamily),
		Standard:        get(model.FieldStandard),
		Grade:           get(model.FieldGrade),
		Dimension:       get(model.FieldDimension),
		Qty:             qty,
		Unit:            NormalizeUnit(get(model.FieldUnit)),
		Finish:          get(model.FieldFinish),
		Notes:           get(model.FieldNotes),
		MatchConfidence: model.ConfidenceNone,
		Errors:          []string{},
		Warnings:        []string{},
	}
	if raw := get(model.FieldLength); raw != "" {
		if l, ok := utils.ParseNumber(raw); ok {
			row.LengthM = &l
		}
	}
	return row
}

// NormalizeUnit maps free-text units onto kg, buc, m or ton; unknown → buc.
func NormalizeUnit(s string) model.Unit {
	u := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(u, "kg"):
		return model.UnitKg
	case strings.Contains(u, "buc"), strings.Contains(u, "pc"):
		return model.UnitBuc
	case strings.Contains(u, "m"):
		return model.UnitM
	case strings.Contains(u, "ton"):
		return model.UnitTon
	default:
		return model.UnitBuc
	}
}
