package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	bom "metalshop/internal/bom/model"
	"metalshop/internal/cart/model"
	catalog "metalshop/internal/catalog/model"
)

const (
	warnUnknownProduct = "Produs inexistent sau inactiv"
	warnBadQty         = "Cantitate invalidă"
)

var kgPerTon = decimal.NewFromInt(1000)

type Estimator struct {
	VATRate  decimal.Decimal
	Currency string
}

func NewEstimator(vatRate decimal.Decimal, currency string) *Estimator {
	return &Estimator{VATRate: vatRate, Currency: currency}
}

// Estimate prices lines against products (keyed by id). Lines that cannot be
// priced stay in the result with a warning and do not count toward totals.
func (e *Estimator) Estimate(lines []model.Line, products map[string]catalog.Product) model.Estimate {
	est := model.Estimate{
		Lines:    make([]model.EstimateLine, 0, len(lines)),
		Subtotal: decimal.Zero,
		VATRate:  e.VATRate,
		Currency: e.Currency,
	}

	for _, l := range lines {
		el := model.EstimateLine{ProductID: l.ProductID, Qty: decimal.NewFromFloat(l.Qty), Unit: strings.ToLower(strings.TrimSpace(l.Unit))}
		p, ok := products[l.ProductID]
		switch {
		case !ok || !p.IsActive:
			el.Warning = warnUnknownProduct
		case l.Qty <= 0:
			el.Title, el.SKU = p.Title, p.SKU
			el.Warning = warnBadQty
		default:
			el.Title, el.SKU, el.PriceUnit = p.Title, p.SKU, p.PriceUnit
			if el.Unit == "" {
				el.Unit = p.PriceUnit
			}
			qty, ok := convert(el.Qty, el.Unit, p.PriceUnit)
			if !ok {
				el.Warning = fmt.Sprintf("Unitate incompatibilă: %s / %s", el.Unit, p.PriceUnit)
				break
			}
			price := p.UnitPrice
			total := qty.Mul(price).Round(2)
			el.UnitPrice, el.LineTotal = &price, &total
			est.Subtotal = est.Subtotal.Add(total)
		}
		if el.LineTotal == nil {
			est.Unpriced++
		}
		est.Lines = append(est.Lines, el)
	}

	est.VAT = est.Subtotal.Mul(e.VATRate).Round(2)
	est.Total = est.Subtotal.Add(est.VAT)
	if e.Currency == "" {
		est.Currency = "RON"
	}
	return est
}

// convert expresses qty given in unit "from" in the price unit "to".
func convert(qty decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	switch {
	case from == to:
		return qty, true
	case from == "ton" && to == "kg":
		return qty.Mul(kgPerTon), true
	case from == "kg" && to == "ton":
		return qty.Div(kgPerTon), true
	default:
		return qty, false
	}
}

// LinesFromBOM turns matched BOM rows into cart lines; unmatched rows are left out.
func LinesFromBOM(rows []bom.Row) []model.Line {
	lines := make([]model.Line, 0, len(rows))
	for _, r := range rows {
		if r.MatchedProductID == nil {
			continue
		}
		lines = append(lines, model.Line{ProductID: *r.MatchedProductID, Qty: r.Qty, Unit: string(r.Unit)})
	}
	return lines
}

// ProductIDs lists the distinct product ids referenced by lines.
func ProductIDs(lines []model.Line) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok || l.ProductID == "" {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
