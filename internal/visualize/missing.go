package visualize

import (
	"bytes"
	"image/color"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// missingGrid exposes a rows x columns missing matrix as a heat map grid, first row on top.
type missingGrid [][]bool

func (g missingGrid) Dims() (c, r int) { return len(g[0]), len(g) }
func (g missingGrid) X(c int) float64  { return float64(c) }
func (g missingGrid) Y(r int) float64  { return float64(r) }
func (g missingGrid) Z(c, r int) float64 {
	if g[len(g)-1-r][c] {
		return 1
	}
	return 0
}

// twoTone is a palette of present (green) and missing (red) cells.
type twoTone []color.Color

func (t twoTone) Colors() []color.Color { return t }

var presentMissing = twoTone{
	color.RGBA{G: 128, A: 255},
	color.RGBA{R: 255, A: 255},
}

func missingHeatmap(rep *analysis.Report) ([]analysis.Figure, error) {
	m := rep.MissingMatrix
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Title.Text = "Missing values (red = missing)"
	hm := plotter.NewHeatMap(missingGrid(m), presentMissing)
	hm.Min, hm.Max = 0, 1
	p.Add(hm)

	names := make([]string, len(rep.Missing))
	for i, mc := range rep.Missing {
		names[i] = mc.Column
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Label.Text = "row"
	p.Y.Tick.Marker = plot.ConstantTicks(nil)

	png, err := encodePlot(p, 10*vg.Inch, 4*vg.Inch)
	if err != nil {
		return nil, err
	}
	return []analysis.Figure{{
		Section: analysis.SectionMissing,
		Name:    "missing-heatmap.png",
		Title:   "Missing value heatmap",
		PNG:     png,
	}}, nil
}

func missingBars(rep *analysis.Report) ([]analysis.Figure, error) {
	if len(rep.Missing) == 0 {
		return nil, nil
	}
	bars := make([]chart.Value, len(rep.Missing))
	maxCount := 1.0
	for i, mc := range rep.Missing {
		bars[i] = chart.Value{Label: mc.Column, Value: float64(mc.Missing)}
		if v := float64(mc.Missing); v > maxCount {
			maxCount = v
		}
	}
	width := 160 + 80*len(bars)
	if width < 640 {
		width = 640
	}
	ch := chart.BarChart{
		Title:      "Missing values per column",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      width,
		Height:     400,
		BarWidth:   40,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxCount}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return []analysis.Figure{{
		Section: analysis.SectionMissing,
		Name:    "missing-counts.png",
		Title:   "Missing values per column",
		PNG:     buf.Bytes(),
	}}, nil
}
