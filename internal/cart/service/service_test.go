package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bom "metalshop/internal/bom/model"
	"metalshop/internal/cart/model"
	catalog "metalshop/internal/catalog/model"
)

func products() map[string]catalog.Product {
	return map[string]catalog.Product{
		"beam":  {ID: "beam", Title: "HEA200 Beam", PriceUnit: "kg", UnitPrice: decimal.RequireFromString("5.40"), IsActive: true},
		"tube":  {ID: "tube", Title: "Teava 40x40", PriceUnit: "m", UnitPrice: decimal.RequireFromString("32.50"), IsActive: true},
		"plate": {ID: "plate", Title: "Tabla", PriceUnit: "ton", UnitPrice: decimal.RequireFromString("4200"), IsActive: true},
		"old":   {ID: "old", Title: "Old", PriceUnit: "buc", UnitPrice: decimal.RequireFromString("1"), IsActive: false},
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEstimateTotals(t *testing.T) {
	e := NewEstimator(d("0.21"), "RON")
	est := e.Estimate([]model.Line{
		{ProductID: "beam", Qty: 100, Unit: "kg"},
		{ProductID: "tube", Qty: 6},
	}, products())

	require.Len(t, est.Lines, 2)
	assert.True(t, est.Lines[0].LineTotal.Equal(d("540")))
	assert.Equal(t, "m", est.Lines[1].Unit)
	assert.True(t, est.Lines[1].LineTotal.Equal(d("195")))
	assert.True(t, est.Subtotal.Equal(d("735")))
	assert.True(t, est.VAT.Equal(d("154.35")))
	assert.True(t, est.Total.Equal(d("889.35")))
	assert.Zero(t, est.Unpriced)
}

func TestEstimateConvertsTonAndKg(t *testing.T) {
	e := NewEstimator(d("0"), "RON")
	est := e.Estimate([]model.Line{
		{ProductID: "beam", Qty: 0.5, Unit: "ton"},
		{ProductID: "plate", Qty: 250, Unit: "KG"},
	}, products())
	assert.True(t, est.Lines[0].LineTotal.Equal(d("2700")))
	assert.True(t, est.Lines[1].LineTotal.Equal(d("1050")))
}

func TestEstimateUnpricedLines(t *testing.T) {
	e := NewEstimator(d("0.21"), "")
	est := e.Estimate([]model.Line{
		{ProductID: "old", Qty: 1},
		{ProductID: "missing", Qty: 1},
		{ProductID: "tube", Qty: 3, Unit: "kg"},
		{ProductID: "beam", Qty: 0},
	}, products())

	assert.Equal(t, 4, est.Unpriced)
	assert.Equal(t, warnUnknownProduct, est.Lines[0].Warning)
	assert.Equal(t, warnUnknownProduct, est.Lines[1].Warning)
	assert.Contains(t, est.Lines[2].Warning, "kg / m")
	assert.Equal(t, warnBadQty, est.Lines[3].Warning)
	assert.True(t, est.Total.IsZero())
	assert.Equal(t, "RON", est.Currency)
}

func TestLinesFromBOMAndProductIDs(t *testing.T) {
	id := "beam"
	rows := []bom.Row{
		{Qty: 2, Unit: bom.UnitTon, MatchedProductID: &id},
		{Qty: 5, Unit: bom.UnitBuc},
		{Qty: 1, Unit: bom.UnitKg, MatchedProductID: &id},
	}
	lines := LinesFromBOM(rows)
	require.Len(t, lines, 2)
	assert.Equal(t, model.Line{ProductID: "beam", Qty: 2, Unit: "ton"}, lines[0])
	assert.Equal(t, []string{"beam"}, ProductIDs(lines))
}
