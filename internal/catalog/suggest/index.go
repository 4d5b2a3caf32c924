// Package suggest ranks catalog products by fuzzy similarity to free text.
// It backs "did you mean" search results and the candidate list offered when a
// BOM row is mapped by hand.
package suggest

import (
	"sort"
	"strings"

	"metalshop/internal/catalog/model"
)

const (
	DefaultLimit     = 5
	DefaultThreshold = 0.35
)

type Suggestion struct {
	Product model.Product `json:"product"`
	Score   float64       `json:"score"`
}

type entry struct {
	product model.Product
	keys    []string // normalized title and sku
}

// Index is an immutable trigram index over a product list.
type Index struct {
	entries []entry
	inv     map[string][]int // trigram -> entry positions
}

// NewIndex indexes the active products, preserving catalog order.
func NewIndex(products []model.Product) *Index {
	idx := &Index{inv: make(map[string][]int)}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		e := entry{product: p}
		for _, k := range []string{normalize(p.Title), normalize(p.SKU), normalize(strings.Join([]string{p.Family, p.Dimension, p.Grade}, " "))} {
			if k != "" {
				e.keys = append(e.keys, k)
			}
		}
		if len(e.keys) == 0 {
			continue
		}
		pos := len(idx.entries)
		idx.entries = append(idx.entries, e)

		seen := map[string]struct{}{}
		for _, k := range e.keys {
			for g := range trigrams(k) {
				if _, ok := seen[g]; ok {
					continue
				}
				seen[g] = struct{}{}
				idx.inv[g] = append(idx.inv[g], pos)
			}
		}
	}
	return idx
}

// Suggest returns up to limit products scoring at least threshold against q,
// best first; equal scores keep catalog order.
func (idx *Index) Suggest(q string, limit int, threshold float64) []Suggestion {
	nq := normalize(q)
	if nq == "" {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	cands := map[int]struct{}{}
	for g := range trigrams(nq) {
		for _, pos := range idx.inv[g] {
			cands[pos] = struct{}{}
		}
	}

	out := make([]Suggestion, 0, len(cands))
	positions := make(map[string]int, len(cands))
	for pos := range cands {
		e := idx.entries[pos]
		best := 0.0
		for _, k := range e.keys {
			best = max(best, bestSimilarity(nq, k))
		}
		if best < threshold {
			continue
		}
		positions[e.product.ID] = pos
		out = append(out, Suggestion{Product: e.product, Score: round3(best)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return positions[out[i].Product.ID] < positions[out[j].Product.ID]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
