package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

var (
	ErrUnsupported  = errors.New("unsupported file format")
	ErrUndecodable  = errors.New("file content is not text")
	magicZip        = []byte("PK\x03\x04")
	magicCompoundFS = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ReadGrid reads an uploaded table and returns its non-blank rows as trimmed cells.
// The format is taken from the content signature first, then from the extension;
// anything that is neither a workbook nor a known binary extension is read as CSV text.
func ReadGrid(r io.Reader, filename string) ([][]string, string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	format, err := DetectFormat(b, filename)
	if err != nil {
		return nil, "", err
	}

	var grid [][]string
	switch format {
	case FormatXLSX:
		grid, err = readXLSX(b)
	case FormatXLS:
		grid, err = readXLS(b)
	default:
		var text string
		text, err = DecodeText(b)
		if err == nil {
			grid = Tokenize(text)
		}
	}
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", format, err)
	}
	return grid, format, nil
}

// DetectFormat picks the reader for b.
func DetectFormat(b []byte, filename string) (string, error) {
	switch {
	case bytes.HasPrefix(b, magicZip):
		return FormatXLSX, nil
	case bytes.HasPrefix(b, magicCompoundFS):
		return FormatXLS, nil
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		if len(b) == 0 {
			return FormatCSV, nil // empty upload, let the caller report it as such
		}
		return FormatXLSX, nil
	case ".xls":
		if len(b) == 0 {
			return FormatCSV, nil
		}
		return FormatXLS, nil
	case ".pdf", ".doc", ".docx", ".zip", ".png", ".jpg", ".jpeg":
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filename)
	default:
		return FormatCSV, nil
	}
}

// cleanGrid trims cells and drops rows that have no content, mirroring how the
// CSV tokenizer skips blank lines.
func cleanGrid(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for i, v := range row {
			cells[i] = strings.TrimSpace(v)
			if cells[i] != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, cells)
		}
	}
	return out
}

// ColumnIndex returns the position of the first header cell equal (case-insensitive)
// to one of names, or -1.
func ColumnIndex(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// Cell returns row[i] or "" when the column is missing.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
