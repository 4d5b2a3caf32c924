// Legacy .xls: we fix the table width ourselves and read every cell up to it.
package fileio

import (
	"bytes"
	"errors"
	"strings"

	xls "github.com/extrame/xls"
)

const probeMaxCols = 256

func normalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	return strings.TrimSpace(s)
}

// computeMaxCols finds the right-most non-empty column; Row.LastCol() is unreliable
// for files written by older tools.
func computeMaxCols(sheet *xls.WorkSheet) int {
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < probeMaxCols; j++ {
			if normalizeCell(r.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(b []byte) ([][]string, error) {
	// workbooks from Romanian installs are mostly cp1250
	var (
		wb      *xls.WorkBook
		err     error
		lastErr error
	)
	for _, ch := range []string{"windows-1250", "utf-8", "iso-8859-2"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return cleanGrid(rows), nil
}
