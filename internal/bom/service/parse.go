package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"metalshop/internal/bom/model"
	catalog "metalshop/internal/catalog/model"
	"metalshop/internal/fileio"
)

const (
	MsgEmptyFile      = "Fișierul este gol"
	msgUnreadableFile = "Fișierul nu a putut fi citit"
)

// parseRow is swapped in tests to exercise per-row failure handling.
var parseRow = ParseRow

// ParseBOMFile reads an uploaded CSV/XLSX/XLS and runs the pipeline on it.
// Read and decode failures are reported in ParseErrors, never returned.
func ParseBOMFile(r io.Reader, meta model.FileMeta, products []catalog.Product, opts model.Options) *model.UploadResult {
	grid, format, err := fileio.ReadGrid(r, meta.Name)
	if err != nil {
		res := emptyResult(meta, fmt.Sprintf("%s: %v", msgUnreadableFile, err))
		res.Format = format
		return res
	}
	res := ParseBOMGrid(grid, meta, products, opts)
	res.Format = format
	return res
}

// ParseBOMText tokenizes CSV text and runs the pipeline on it.
func ParseBOMText(text string, meta model.FileMeta, products []catalog.Product, opts model.Options) *model.UploadResult {
	res := ParseBOMGrid(fileio.Tokenize(text), meta, products, opts)
	res.Format = fileio.FormatCSV
	return res
}

// ParseBOMGrid detects headers, parses every data row and auto-matches it
// against products. Rows keep source order; a failing row is reported with its
// 1-based number and the rest of the file is still parsed.
func ParseBOMGrid(grid [][]string, meta model.FileMeta, products []catalog.Product, opts model.Options) *model.UploadResult {
	if len(grid) == 0 {
		return emptyResult(meta, MsgEmptyFile)
	}

	headerRow, mapping := opts.HeaderRow, opts.Mapping
	if opts.AutoDetectHeaders {
		h := DetectHeaders(grid)
		headerRow, mapping = h.HeaderRow, h.Mapping
	}
	if mapping == nil {
		mapping = model.Mapping{}
	}

	res := &model.UploadResult{
		FileName:   meta.Name,
		FileSize:   meta.Size,
		UploadedAt: time.Now().UTC(),
		Rows:       []model.Row{},
	}
	var parseErrors []string

	for i := max(headerRow+1, 0); i < len(grid); i++ {
		cells := grid[i]
		if opts.SkipEmptyRows && isBlankRow(cells) {
			continue
		}
		row, err := safeParseRow(cells, i, mapping)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("Rândul %d: %v", i+1, err))
			continue
		}
		if row == nil {
			continue
		}
		row.ParsedFamily = Normalize(row.Family)
		res.Rows = append(res.Rows, AutoMatchRow(*row, products))
	}

	res.TotalRows = len(res.Rows)
	if len(parseErrors) > 0 {
		res.ParseErrors = parseErrors
	}
	return res
}

func safeParseRow(cells []string, i int, m model.Mapping) (row *model.Row, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			row, err = nil, fmt.Errorf("%v", rec)
		}
	}()
	return parseRow(cells, i, m), nil
}

func emptyResult(meta model.FileMeta, msg string) *model.UploadResult {
	return &model.UploadResult{
		FileName:    meta.Name,
		FileSize:    meta.Size,
		UploadedAt:  time.Now().UTC(),
		TotalRows:   0,
		Rows:        []model.Row{},
		ParseErrors: []string{msg},
	}
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
