package service

import (
	"strings"

	"metalshop/internal/bom/model"
)

// headerScanRows is how many leading rows may hold the header.
const headerScanRows = 3

// minHeaderMatches is the number of recognized cells that makes a row a header.
const minHeaderMatches = 3

// Synonyms lists the normalized tokens that identify one field.
// Contains tokens match anywhere in the cell; Exact tokens must equal the whole
// cell (short abbreviations like "UM" would otherwise hit unrelated words).
type Synonyms struct {
	Field    model.Field
	Contains []string
	Exact    []string
}

// Vocabulary is checked in order; the first entry that matches a cell wins.
type Vocabulary []Synonyms

// DefaultVocabulary returns the Romanian/English header synonyms.
// Tokens are in normalized form, so diacritics are already stripped
// ("Secțiune" normalizes to "SECIUNE").
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{Field: model.FieldFamily, Contains: []string{"FAMIL", "CATEGOR", "TIP_PRODUS", "PRODUCT_TYPE"}, Exact: []string{"TIP", "TYPE", "PRODUS", "PRODUCT"}},
		{Field: model.FieldStandard, Contains: []string{"STANDARD", "NORMA", "NORM"}, Exact: []string{"STD", "SR_EN", "EN"}},
		{Field: model.FieldGrade, Contains: []string{"GRAD", "CALITATE", "MARC", "MATERIAL"}},
		{Field: model.FieldDimension, Contains: []string{"DIMENS", "SECTIUN", "SECIUN", "SIZE"}, Exact: []string{"DIM"}},
		{Field: model.FieldLength, Contains: []string{"LUNGIM", "LENGTH"}, Exact: []string{"L", "LUNG", "L_M"}},
		{Field: model.FieldQuantity, Contains: []string{"CANTIT", "QUANTIT", "QTY", "NR_BUC"}, Exact: []string{"CANT", "Q"}},
		{Field: model.FieldUnit, Contains: []string{"UNITATE", "UNIT"}, Exact: []string{"UM", "U_M", "MU", "UOM"}},
		{Field: model.FieldFinish, Contains: []string{"FINIS", "ACOPERIR", "SUPRAFA", "COATING"}},
		{Field: model.FieldNotes, Contains: []string{"NOTE", "OBSERV", "COMENT", "COMMENT", "REMARK", "MENTIUN", "MENIUN"}, Exact: []string{"OBS"}},
	}
}

var defaultVocabulary = DefaultVocabulary()

// Match returns the field a raw header cell names.
func (v Vocabulary) Match(cell string) (model.Field, bool) {
	n := Normalize(cell)
	if n == "" {
		return "", false
	}
	for _, syn := range v {
		for _, tok := range syn.Exact {
			if n == tok {
				return syn.Field, true
			}
		}
		for _, tok := range syn.Contains {
			if strings.Contains(n, tok) {
				return syn.Field, true
			}
		}
	}
	return "", false
}

// PositionalMapping is the fallback when no header row is recognized:
// columns 0..8 in model.Fields order.
func PositionalMapping() model.Mapping {
	m := make(model.Mapping, len(model.Fields))
	for i, f := range model.Fields {
		m[f] = i
	}
	return m
}

// DetectHeaders scans the first rows for a header using the default vocabulary.
func DetectHeaders(grid [][]string) model.HeaderResult {
	return DetectHeadersWith(grid, defaultVocabulary)
}

// DetectHeadersWith is DetectHeaders with a caller-supplied vocabulary.
// The first of the leading rows with at least minHeaderMatches recognized cells
// wins; each field maps to the first column naming it. Without a header the
// positional template is returned with HeaderRow -1.
func DetectHeadersWith(grid [][]string, vocab Vocabulary) model.HeaderResult {
	for i := 0; i < len(grid) && i < headerScanRows; i++ {
		mapping := model.Mapping{}
		matches := 0
		for col, cell := range grid[i] {
			f, ok := vocab.Match(cell)
			if !ok {
				continue
			}
			matches++
			if _, seen := mapping[f]; !seen {
				mapping[f] = col
			}
		}
		if matches >= minHeaderMatches {
			return model.HeaderResult{HeaderRow: i, Mapping: mapping, Detected: true}
		}
	}
	return model.HeaderResult{HeaderRow: -1, Mapping: PositionalMapping()}
}
