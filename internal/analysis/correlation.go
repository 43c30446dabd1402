package analysis

import (
	"math"

	"github.com/KaramelBytes/edaloom/internal/dataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds Pearson correlations among numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// Correlation computes the Pearson matrix over rows where every numeric cell is present.
// Entries involving a constant column are NaN. It returns nil without numeric columns or
// with fewer than two complete rows.
func Correlation(ds *dataset.Dataset) *CorrMatrix {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil
	}
	var data []float64
	n := 0
	for _, row := range ds.Rows {
		complete := true
		for _, j := range cols {
			if row[j].Null || math.IsNaN(row[j].Num) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for _, j := range cols {
			data = append(data, row[j].Num)
		}
		n++
	}
	if n < 2 {
		return nil
	}

	x := mat.NewDense(n, len(cols), data)
	corr := mat.NewSymDense(len(cols), nil)
	stat.CorrelationMatrix(corr, x, nil)

	constant := make([]bool, len(cols))
	for k := range cols {
		constant[k] = stat.Variance(mat.Col(nil, k, x), nil) == 0
	}

	cm := &CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for a, j := range cols {
		cm.Columns[a] = ds.Columns[j].Name
		cm.Values[a] = make([]float64, len(cols))
		for b := range cols {
			v := corr.At(a, b)
			switch {
			case constant[a] || constant[b]:
				v = math.NaN()
			case v > 1:
				v = 1
			case v < -1:
				v = -1
			}
			cm.Values[a][b] = v
		}
	}
	return cm
}
