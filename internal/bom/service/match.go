package service

import (
	"errors"
	"fmt"
	"strings"

	"metalshop/internal/bom/model"
	catalog "metalshop/internal/catalog/model"
)

// Scoring weights and tier thresholds. The UI color-codes rows by tier, so these
// values are part of the contract.
const (
	scoreFamilyExact   = 40
	scoreFamilyPartial = 20
	scoreGradeExact    = 30
	scoreGradePartial  = 15
	scoreDimension     = 25
	scoreStandard      = 5

	thresholdHigh   = 80
	thresholdMedium = 50
	thresholdLow    = 20
)

const ReasonNoMatch = "Nu s-au găsit produse compatibile"

// Score rates how well p fits row. Empty row fields contribute nothing.
func Score(row model.Row, p catalog.Product) int {
	score := 0

	if rf := Normalize(row.Family); rf != "" {
		pf := Normalize(p.Family)
		switch {
		case rf == pf:
			score += scoreFamilyExact
		case strings.Contains(pf, rf):
			score += scoreFamilyPartial
		}
	}

	if rg := Normalize(row.Grade); rg != "" {
		pg := Normalize(p.Grade)
		switch {
		case rg == pg:
			score += scoreGradeExact
		case strings.Contains(pg, rg):
			score += scoreGradePartial
		}
	}

	if rd := Normalize(row.Dimension); rd != "" && strings.Contains(Normalize(p.Title), rd) {
		score += scoreDimension
	}

	if rs := Normalize(row.Standard); rs != "" {
		for _, s := range p.Standards {
			if Normalize(s) == rs {
				score += scoreStandard
				break
			}
		}
	}
	return score
}

// ConfidenceFor maps a score onto a tier.
func ConfidenceFor(score int) model.Confidence {
	switch {
	case score >= thresholdHigh:
		return model.ConfidenceHigh
	case score >= thresholdMedium:
		return model.ConfidenceMedium
	case score >= thresholdLow:
		return model.ConfidenceLow
	default:
		return model.ConfidenceNone
	}
}

// AutoMatchRow annotates row with the best-scoring active product.
// Only a strictly higher score replaces the current best, so ties go to the
// product seen first in catalog order. A best score of 0 is no match.
func AutoMatchRow(row model.Row, products []catalog.Product) model.Row {
	var (
		best      *catalog.Product
		bestScore int
	)
	for i := range products {
		p := &products[i]
		if !p.IsActive {
			continue
		}
		if s := Score(row, *p); s > bestScore {
			best, bestScore = p, s
		}
	}

	row.ManuallyMapped = false
	if best == nil {
		row.MatchedProductID = nil
		row.MatchConfidence = model.ConfidenceNone
		row.MatchReason = ReasonNoMatch
		return row
	}

	id := best.ID
	row.MatchedProductID = &id
	row.MatchConfidence = ConfidenceFor(bestScore)
	row.MatchReason = fmt.Sprintf("Scor %d/100: %s", bestScore, best.Title)
	return row
}

// ErrRowNotFound is returned by RemapRow for an index not present in the upload.
var ErrRowNotFound = errors.New("bom row not found")

// ManualMatch pins row to p, or clears the match when p is nil.
func ManualMatch(row model.Row, p *catalog.Product) model.Row {
	if p == nil {
		row.MatchedProductID = nil
		row.MatchConfidence = model.ConfidenceNone
		row.MatchReason = ReasonNoMatch
		row.ManuallyMapped = true
		return row
	}
	id := p.ID
	row.MatchedProductID = &id
	row.MatchConfidence = model.ConfidenceHigh
	row.MatchReason = "Mapare manuală: " + p.Title
	row.ManuallyMapped = true
	return row
}

// RemapRow applies ManualMatch to the row with the given RowIndex in place.
func RemapRow(res *model.UploadResult, rowIndex int, p *catalog.Product) (model.Row, error) {
	for i := range res.Rows {
		if res.Rows[i].RowIndex == rowIndex {
			res.Rows[i] = ManualMatch(res.Rows[i], p)
			return res.Rows[i], nil
		}
	}
	return model.Row{}, ErrRowNotFound
}
