package repository

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"metalshop/internal/catalog/model"
	"metalshop/internal/fileio"
	"metalshop/internal/utils"
)

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportFile seeds the catalog from a CSV/XLSX/XLS sheet whose first row names the columns.
func (r *Repository) ImportFile(ctx context.Context, rd io.Reader, filename string) (ImportResult, error) {
	grid, _, err := fileio.ReadGrid(rd, filename)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read catalog %s: %w", filename, err)
	}
	return r.ImportGrid(ctx, grid)
}

// ImportGrid upserts one product per data row. Rows without id and sku, or
// without a title, are skipped and reported; catalog order follows the sheet.
func (r *Repository) ImportGrid(ctx context.Context, grid [][]string) (ImportResult, error) {
	var res ImportResult
	if len(grid) < 2 {
		return res, nil
	}
	h := grid[0]
	col := struct{ id, sku, title, family, grade, standards, dimension, finish, unit, price, currency, active int }{
		id:        fileio.ColumnIndex(h, "id"),
		sku:       fileio.ColumnIndex(h, "sku", "cod"),
		title:     fileio.ColumnIndex(h, "title", "denumire", "name"),
		family:    fileio.ColumnIndex(h, "family", "familie"),
		grade:     fileio.ColumnIndex(h, "grade", "grad"),
		standards: fileio.ColumnIndex(h, "standards", "standard", "standarde"),
		dimension: fileio.ColumnIndex(h, "dimension", "dimensiune"),
		finish:    fileio.ColumnIndex(h, "finish", "finisaj"),
		unit:      fileio.ColumnIndex(h, "unit", "um", "unitate"),
		price:     fileio.ColumnIndex(h, "price", "pret"),
		currency:  fileio.ColumnIndex(h, "currency", "moneda"),
		active:    fileio.ColumnIndex(h, "active", "activ"),
	}
	if col.title < 0 || (col.id < 0 && col.sku < 0) {
		return res, fmt.Errorf("catalog sheet needs a title column and an id or sku column")
	}

	for i, row := range grid[1:] {
		id := fileio.Cell(row, col.id)
		sku := fileio.Cell(row, col.sku)
		if id == "" {
			id = sku
		}
		title := fileio.Cell(row, col.title)
		if id == "" || title == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: missing id or title", i+2))
			continue
		}

		price := decimal.Zero
		if raw := fileio.Cell(row, col.price); raw != "" {
			f, ok := utils.ParseNumber(raw)
			if !ok || f < 0 {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: invalid price %q", i+2, raw))
				continue
			}
			price = decimal.NewFromFloat(f).Round(4)
		}

		p := model.Product{
			ID:        id,
			SKU:       sku,
			Title:     title,
			Family:    fileio.Cell(row, col.family),
			Grade:     fileio.Cell(row, col.grade),
			Standards: strings.Split(fileio.Cell(row, col.standards), ";"),
			Dimension: fileio.Cell(row, col.dimension),
			Finish:    fileio.Cell(row, col.finish),
			PriceUnit: priceUnit(fileio.Cell(row, col.unit)),
			UnitPrice: price,
			Currency:  strings.ToUpper(fileio.Cell(row, col.currency)),
			IsActive:  utils.ToBool(fileio.Cell(row, col.active), true),
			Position:  i,
		}
		if err := r.Upsert(ctx, p); err != nil {
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

func priceUnit(s string) string {
	switch u := strings.ToLower(strings.TrimSpace(s)); u {
	case "kg", "m", "ton":
		return u
	default:
		return "buc"
	}
}
