package model

import "time"

type Unit string

const (
	UnitKg  Unit = "kg"
	UnitBuc Unit = "buc"
	UnitM   Unit = "m"
	UnitTon Unit = "ton"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitBuc, UnitM, UnitTon:
		return true
	}
	return false
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Field is a logical BOM column.
type Field string

const (
	FieldFamily    Field = "family"
	FieldStandard  Field = "standard"
	FieldGrade     Field = "grade"
	FieldDimension Field = "dimension"
	FieldLength    Field = "length"
	FieldQuantity  Field = "quantity"
	FieldUnit      Field = "unit"
	FieldFinish    Field = "finish"
	FieldNotes     Field = "notes"
)

// Fields in positional-template order.
var Fields = []Field{
	FieldFamily, FieldStandard, FieldGrade, FieldDimension, FieldLength,
	FieldQuantity, FieldUnit, FieldFinish, FieldNotes,
}

// Mapping: field -> 0-based column index.
type Mapping map[Field]int

// Row is one parsed BOM line plus its match annotation.
type Row struct {
	RowIndex  int      `json:"rowIndex"`
	Family    string   `json:"family,omitempty"`
	Standard  string   `json:"standard,omitempty"`
	Grade     string   `json:"grade,omitempty"`
	Dimension string   `json:"dimension,omitempty"`
	LengthM   *float64 `json:"length_m,omitempty"`
	Qty       float64  `json:"qty"`
	Unit      Unit     `json:"unit"`
	Finish    string   `json:"finish,omitempty"`
	Notes     string   `json:"notes,omitempty"`

	ParsedFamily     string     `json:"parsedFamily,omitempty"`
	MatchedProductID *string    `json:"matchedProductId,omitempty"`
	MatchConfidence  Confidence `json:"matchConfidence"`
	MatchReason      string     `json:"matchReason,omitempty"`
	ManuallyMapped   bool       `json:"manuallyMapped,omitempty"`
	Errors           []string   `json:"errors"`
	Warnings         []string   `json:"warnings"`
}

// UploadResult is the outcome of one parse run.
type UploadResult struct {
	ID          string    `json:"id,omitempty"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	Format      string    `json:"format,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
	TotalRows   int       `json:"totalRows"`
	Rows        []Row     `json:"rows"`
	ParseErrors []string  `json:"parseErrors,omitempty"`
}

// FileMeta describes the uploaded file.
type FileMeta struct {
	Name string
	Size int64
}

// Options control ParseBOM. Use DefaultOptions for the usual behavior.
type Options struct {
	AutoDetectHeaders bool
	Mapping           Mapping // used when AutoDetectHeaders is false
	HeaderRow         int     // 0-based; -1 = no header row. Used when AutoDetectHeaders is false
	SkipEmptyRows     bool
}

func DefaultOptions() Options {
	return Options{AutoDetectHeaders: true, SkipEmptyRows: true}
}

type HeaderResult struct {
	HeaderRow int     `json:"headerRow"`
	Mapping   Mapping `json:"mapping"`
	Detected  bool    `json:"detected"`
}

type Stats struct {
	Total     int     `json:"total"`
	High      int     `json:"high"`
	Medium    int     `json:"medium"`
	Low       int     `json:"low"`
	None      int     `json:"none"`
	MatchRate float64 `json:"matchRate"`
}
