package visualize

import (
	"bytes"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pairTile = 2 * vg.Inch
	pairBins = 16
)

// pairplot draws a scatter matrix over numeric columns with histograms on the diagonal.
func pairplot(rep *analysis.Report) ([]analysis.Figure, error) {
	ds := rep.Data
	if ds == nil {
		return nil, nil
	}
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	n := len(cols)

	plots := make([][]*plot.Plot, n)
	for r, jr := range cols {
		plots[r] = make([]*plot.Plot, n)
		for c, jc := range cols {
			p := plot.New()
			if r == n-1 {
				p.X.Label.Text = ds.Columns[jc].Name
			}
			if c == 0 {
				p.Y.Label.Text = ds.Columns[jr].Name
			}
			if r == c {
				vals := finite(ds.Floats(jc))
				if varies(vals) {
					h, err := plotter.NewHist(plotter.Values(vals), pairBins)
					if err != nil {
						return nil, err
					}
					p.Add(h)
				}
			} else {
				var xys plotter.XYs
				for _, row := range ds.Rows {
					x, y := row[jc], row[jr]
					if x.Null || y.Null || !isFinite(x.Num) || !isFinite(y.Num) {
						continue
					}
					xys = append(xys, plotter.XY{X: x.Num, Y: y.Num})
				}
				if len(xys) > 0 {
					s, err := plotter.NewScatter(xys)
					if err != nil {
						return nil, err
					}
					s.GlyphStyle.Radius = vg.Points(1.5)
					p.Add(s)
				}
			}
			plots[r][c] = p
		}
	}

	img := vgimg.New(vg.Length(n)*pairTile, vg.Length(n)*pairTile)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: n, Cols: n, PadX: vg.Points(4), PadY: vg.Points(4)}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}
	return []analysis.Figure{{
		Section: analysis.SectionPairplot,
		Name:    "pairplot.png",
		Title:   "Pairplot",
		PNG:     buf.Bytes(),
	}}, nil
}

func varies(vals []float64) bool {
	if len(vals) < 2 {
		return false
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return true
		}
	}
	return false
}
