package fileio

import (
	"bytes"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX returns the first sheet that has any content.
func readXLSX(b []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if grid := cleanGrid(rows); len(grid) > 0 {
			return grid, nil
		}
	}
	return nil, nil
}
