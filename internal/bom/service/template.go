package service

import (
	excelize "github.com/xuri/excelize/v2"
)

var templateHeader = []string{"Familie", "Standard", "Grad", "Dimensiune", "Lungime (m)", "Cantitate", "Unitate", "Finisaj", "Note"}

var templateExample = []any{"Profile", "EN 10025-2", "S235JR", "HEA200", 12, 5, "buc", "Laminat la cald", "Livrare Cluj"}

// Template builds the downloadable BOM workbook. Its header row is recognized
// by DetectHeaders and its column order matches the positional fallback.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "BOM"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range templateHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 16)
	}
	last, _ := excelize.CoordinatesToCellName(len(templateHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &templateExample); err != nil {
		return nil, err
	}
	return f, nil
}
