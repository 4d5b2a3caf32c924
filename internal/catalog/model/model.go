package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. The BOM matcher reads ID, Title, Family, Grade,
// Standards and IsActive; the rest feeds the storefront and the estimate cart.
type Product struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	SKU       string          `json:"sku"`
	Family    string          `json:"family"`
	Grade     string          `json:"grade"`
	Standards []string        `json:"standards"`
	IsActive  bool            `json:"isActive"`
	Dimension string          `json:"dimension,omitempty"`
	Finish    string          `json:"finish,omitempty"`
	PriceUnit string          `json:"priceUnit"` // kg | buc | m | ton
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
	Position  int             `json:"-"` // catalog order
}

// Query filters a catalog search.
type Query struct {
	Text       string
	Family     string
	Grade      string
	Standard   string
	ActiveOnly bool
	Page       int
	PerPage    int
}

type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Facets struct {
	Family []FacetCount `json:"family"`
	Grade  []FacetCount `json:"grade"`
}

type SearchResult struct {
	Items   []Product `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
	Facets  Facets    `json:"facets"`
}
