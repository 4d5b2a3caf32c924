package model

import "github.com/shopspring/decimal"

// Line is one requested cart position. Unit defaults to the product's price unit.
type Line struct {
	ProductID string  `json:"productId"`
	Qty       float64 `json:"qty"`
	Unit      string  `json:"unit,omitempty"`
}

type EstimateLine struct {
	ProductID string           `json:"productId"`
	Title     string           `json:"title,omitempty"`
	SKU       string           `json:"sku,omitempty"`
	Qty       decimal.Decimal  `json:"qty"`
	Unit      string           `json:"unit"`
	PriceUnit string           `json:"priceUnit,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	LineTotal *decimal.Decimal `json:"lineTotal,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}

// Estimate is indicative only; the binding price comes with the quote.
type Estimate struct {
	Lines    []EstimateLine  `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	VATRate  decimal.Decimal `json:"vatRate"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Unpriced int             `json:"unpriced"`
}
