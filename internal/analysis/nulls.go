package analysis

import (
	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column  string
	Missing int
	Percent float64
}

// Imputation records the median written into a numeric column's missing cells.
type Imputation struct {
	Column string
	Median float64
	Filled int
}

// MissingCounts counts missing cells for every column.
func MissingCounts(ds *dataset.Dataset) []MissingCount {
	out := make([]MissingCount, 0, len(ds.Columns))
	for j, c := range ds.Columns {
		out = append(out, missingCount(ds, j, c.Name))
	}
	return out
}

// MissingMatrix marks missing cells row by row.
func MissingMatrix(ds *dataset.Dataset) [][]bool {
	m := make([][]bool, len(ds.Rows))
	for i, row := range ds.Rows {
		m[i] = make([]bool, len(row))
		for j, v := range row {
			m[i][j] = v.Null
		}
	}
	return m
}

// ImputeMedian fills missing cells of every numeric column with the median of its observed values.
// Non-numeric columns are left as they are.
func ImputeMedian(ds *dataset.Dataset) []Imputation {
	var out []Imputation
	for _, j := range ds.NumericColumns() {
		vals := ds.Floats(j)
		if len(vals) == 0 {
			continue
		}
		med, err := stats.Median(vals)
		if err != nil {
			continue
		}
		imp := Imputation{Column: ds.Columns[j].Name, Median: med}
		for i := range ds.Rows {
			if ds.Rows[i][j].Null {
				ds.Rows[i][j].SetNum(med)
				imp.Filled++
			}
		}
		out = append(out, imp)
	}
	return out
}

// UnresolvedMissing lists non-numeric columns that still hold missing cells. Columns with
// no observed value are reported by EmptyColumns instead.
func UnresolvedMissing(ds *dataset.Dataset) []MissingCount {
	var out []MissingCount
	for j, c := range ds.Columns {
		if ds.IsNumeric(j) || c.Kind == dataset.KindEmpty {
			continue
		}
		if mc := missingCount(ds, j, c.Name); mc.Missing > 0 {
			out = append(out, mc)
		}
	}
	return out
}

// EmptyColumns lists columns without a single observed value. Their median is undefined,
// so they stay missing.
func EmptyColumns(ds *dataset.Dataset) []MissingCount {
	var out []MissingCount
	for j, c := range ds.Columns {
		if c.Kind != dataset.KindEmpty {
			continue
		}
		if mc := missingCount(ds, j, c.Name); mc.Missing > 0 {
			out = append(out, mc)
		}
	}
	return out
}

func missingCount(ds *dataset.Dataset, j int, name string) MissingCount {
	mc := MissingCount{Column: name, Missing: ds.MissingIn(j)}
	if n := len(ds.Rows); n > 0 {
		mc.Percent = float64(mc.Missing) * 100 / float64(n)
	}
	return mc
}
