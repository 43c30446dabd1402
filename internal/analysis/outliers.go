package analysis

import (
	"math"

	"github.com/KaramelBytes/edaloom/internal/dataset"
)

// IQRFactor scales the interquartile range into the capping fences.
const IQRFactor = 1.5

// Bounds are the quartiles and fences of one column.
type Bounds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// Contains reports whether x lies within the fences.
func (b Bounds) Contains(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// OutlierTreatment records the fences of a column and how many values were capped to each.
type OutlierTreatment struct {
	Column string
	Bounds
	CappedLow  int
	CappedHigh int
}

// IQRBounds computes [Q1-1.5*IQR, Q3+1.5*IQR] over the non-NaN values. All fields are NaN
// when there are no values.
func IQRBounds(values []float64) Bounds {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		nan := math.NaN()
		return Bounds{Q1: nan, Q3: nan, IQR: nan, Lower: nan, Upper: nan}
	}
	sorted := sortedCopy(clean)
	b := Bounds{Q1: quantile(sorted, 0.25), Q3: quantile(sorted, 0.75)}
	b.IQR = b.Q3 - b.Q1
	b.Lower = b.Q1 - IQRFactor*b.IQR
	b.Upper = b.Q3 + IQRFactor*b.IQR
	return b
}

// TreatOutliers caps every numeric column to its own IQR fences, computed from the column's
// current values. Rows are never removed and missing cells stay missing.
func TreatOutliers(ds *dataset.Dataset) []OutlierTreatment {
	var out []OutlierTreatment
	for _, j := range ds.NumericColumns() {
		vals := ds.Floats(j)
		if len(vals) == 0 {
			continue
		}
		t := OutlierTreatment{Column: ds.Columns[j].Name, Bounds: IQRBounds(vals)}
		for i := range ds.Rows {
			v := &ds.Rows[i][j]
			if v.Null {
				continue
			}
			switch {
			case v.Num > t.Upper:
				v.SetNum(t.Upper)
				t.CappedHigh++
			case v.Num < t.Lower:
				v.SetNum(t.Lower)
				t.CappedLow++
			}
		}
		out = append(out, t)
	}
	return out
}
