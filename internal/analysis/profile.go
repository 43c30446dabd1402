package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

// DefaultHeadRows is the number of leading rows shown in a profile.
const DefaultHeadRows = 10

// ColumnInfo is the per-column line of the info view.
type ColumnInfo struct {
	Name    string
	Unit    string
	Kind    dataset.Kind
	DType   string
	NonNull int
	Missing int
}

// ColumnStats holds the descriptive statistics of one numeric column.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// DTypeCount counts columns sharing a storage dtype.
type DTypeCount struct {
	DType string
	Count int
}

// DatasetProfile is the read-only structural view of a dataset.
type DatasetProfile struct {
	Rows        int
	Cols        int
	Head        [][]string
	Columns     []ColumnInfo
	DTypeCounts []DTypeCount
	Describe    []ColumnStats
}

// Profile summarizes shape, column types, the first headRows rows and descriptive statistics.
func Profile(ds *dataset.Dataset, headRows int) *DatasetProfile {
	if headRows <= 0 {
		headRows = DefaultHeadRows
	}
	rows, cols := ds.Shape()
	p := &DatasetProfile{Rows: rows, Cols: cols}

	for i := 0; i < rows && i < headRows; i++ {
		line := make([]string, cols)
		for j, v := range ds.Rows[i] {
			line[j] = displayCell(v)
		}
		p.Head = append(p.Head, line)
	}

	counts := map[string]int{}
	for j, c := range ds.Columns {
		miss := ds.MissingIn(j)
		p.Columns = append(p.Columns, ColumnInfo{
			Name: c.Name, Unit: c.Unit, Kind: c.Kind, DType: c.DType,
			NonNull: rows - miss, Missing: miss,
		})
		counts[c.DType]++
	}
	for dt, n := range counts {
		p.DTypeCounts = append(p.DTypeCounts, DTypeCount{DType: dt, Count: n})
	}
	sort.Slice(p.DTypeCounts, func(a, b int) bool { return p.DTypeCounts[a].DType < p.DTypeCounts[b].DType })

	p.Describe = Describe(ds)
	return p
}

// Describe computes count, mean, sample std, min, quartiles and max for each numeric column.
func Describe(ds *dataset.Dataset) []ColumnStats {
	var out []ColumnStats
	for _, j := range ds.NumericColumns() {
		out = append(out, describeColumn(ds.Columns[j].Name, ds.Floats(j)))
	}
	return out
}

func describeColumn(name string, vals []float64) ColumnStats {
	nan := math.NaN()
	cs := ColumnStats{Column: name, Count: len(vals), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(vals) == 0 {
		return cs
	}
	cs.Mean, _ = stats.Mean(vals)
	if len(vals) > 1 {
		cs.Std, _ = stats.StandardDeviationSample(vals)
	}
	cs.Min, _ = stats.Min(vals)
	cs.Max, _ = stats.Max(vals)
	sorted := sortedCopy(vals)
	cs.Q1 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q3 = quantile(sorted, 0.75)
	return cs
}

func displayCell(v dataset.Value) string {
	if v.Null {
		return "NaN"
	}
	return v.Raw
}
