package visualize

import (
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// corrGrid exposes a correlation matrix as a heat map grid with the first column on top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }

func correlationHeatmap(rep *analysis.Report) ([]analysis.Figure, error) {
	cm := rep.Corr
	if cm == nil || len(cm.Columns) == 0 {
		return nil, nil
	}
	n := len(cm.Columns)

	coolwarm := moreland.SmoothBlueRed()
	coolwarm.SetMin(-1)
	coolwarm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{cm}, coolwarm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	var xys plotter.XYs
	var labels []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(n - 1 - r)})
			v := cm.Values[r][c]
			if math.IsNaN(v) {
				labels = append(labels, "NaN")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	annot, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = draw.XCenter
		annot.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(hm, annot)
	p.NominalX(cm.Columns...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight
	rev := make([]string, n)
	for i, name := range cm.Columns {
		rev[n-1-i] = name
	}
	p.NominalY(rev...)

	png, err := encodePlot(p, 12*vg.Inch, 8*vg.Inch)
	if err != nil {
		return nil, err
	}
	return []analysis.Figure{{
		Section: analysis.SectionCorrelation,
		Name:    "correlation-heatmap.png",
		Title:   "Correlation heatmap",
		PNG:     png,
	}}, nil
}
