package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	// KindEmpty marks a column without a single observed value.
	KindEmpty Kind = "empty"
)

var (
	// ErrNoColumns is returned when the input has no header row.
	ErrNoColumns = errors.New("no columns to parse from input")
	// ErrMalformed is returned when a record does not fit the header.
	ErrMalformed = errors.New("malformed tabular input")
)

// Options controls ingestion of tabular data.
type Options struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen by file extension (.tsv -> tab, else comma).
	Delimiter rune
	// DecimalSeparator for numeric cells. If 0, auto-detect per value.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing; 0 means none (auto when decimal is auto).
	ThousandsSeparator rune
	// UnitNormalize converts header units using UnitTargets, e.g. {"g/L":"mg/L"}.
	UnitNormalize bool
	UnitTargets   map[string]string
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions parses numbers the way pandas does by default: '.' decimals, no grouping.
func DefaultOptions() Options {
	return Options{
		DecimalSeparator: '.',
		SheetIndex:       1,
		UnitTargets: map[string]string{
			"g/L":  "mg/L",
			"ug/L": "mg/L",
			"°F":   "°C",
		},
	}
}

// Column describes a named column. Name, Kind and DType are fixed at ingestion.
type Column struct {
	Name  string
	Unit  string
	Kind  Kind
	DType string
}

// Value is a single cell. Num is NaN for missing and non-numeric cells.
type Value struct {
	Raw  string
	Num  float64
	Null bool
}

// SetNum stores a numeric value and refreshes the display text.
func (v *Value) SetNum(x float64) {
	v.Num = x
	v.Null = false
	v.Raw = strconv.FormatFloat(x, 'g', -1, 64)
}

// Dataset is a mutable, ordered collection of rows over fixed columns.
type Dataset struct {
	Name     string
	Columns  []Column
	Rows     [][]Value
	Warnings []string
}

// Shape returns the row and column counts.
func (d *Dataset) Shape() (rows, cols int) {
	return len(d.Rows), len(d.Columns)
}

// IsNumeric reports whether column j holds numeric data.
func (d *Dataset) IsNumeric(j int) bool {
	return j >= 0 && j < len(d.Columns) && d.Columns[j].Kind == KindNumeric
}

// NumericColumns returns the indexes of numeric columns in column order.
func (d *Dataset) NumericColumns() []int {
	var out []int
	for j := range d.Columns {
		if d.IsNumeric(j) {
			out = append(out, j)
		}
	}
	return out
}

// Floats returns the non-missing numeric values of column j in row order.
func (d *Dataset) Floats(j int) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		v := row[j]
		if v.Null || math.IsNaN(v.Num) {
			continue
		}
		out = append(out, v.Num)
	}
	return out
}

// MissingIn counts missing cells in column j.
func (d *Dataset) MissingIn(j int) int {
	n := 0
	for _, row := range d.Rows {
		if row[j].Null {
			n++
		}
	}
	return n
}

// ColumnIndex finds a column by case-insensitive name, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for j, c := range d.Columns {
		if strings.ToLower(c.Name) == want {
			return j
		}
	}
	return -1
}

// Clone returns a deep copy so a stage can be rerun on the original rows.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Name:     d.Name,
		Columns:  append([]Column(nil), d.Columns...),
		Rows:     make([][]Value, len(d.Rows)),
		Warnings: append([]string(nil), d.Warnings...),
	}
	for i, row := range d.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}
