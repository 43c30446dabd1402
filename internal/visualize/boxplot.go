package visualize

import (
	"fmt"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// boxplots draws one box per numeric column of the cleaned data.
func boxplots(rep *analysis.Report) ([]analysis.Figure, error) {
	ds := rep.Data
	if ds == nil {
		return nil, nil
	}
	var figs []analysis.Figure
	for k, j := range ds.NumericColumns() {
		name := ds.Columns[j].Name
		vals := finite(ds.Floats(j))
		if len(vals) == 0 {
			continue
		}
		p := plot.New()
		p.Title.Text = "Boxplot for " + name
		box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(vals))
		if err != nil {
			return nil, fmt.Errorf("boxplot %q: %w", name, err)
		}
		p.Add(box)
		p.NominalX(name)

		png, err := encodePlot(p, 4*vg.Inch, 4*vg.Inch)
		if err != nil {
			return nil, fmt.Errorf("boxplot %q: %w", name, err)
		}
		figs = append(figs, analysis.Figure{
			Section: analysis.SectionBoxplots,
			Name:    fmt.Sprintf("boxplot-%02d-%s.png", k+1, slug(name)),
			Title:   "Boxplot for " + name,
			PNG:     png,
		})
	}
	return figs, nil
}
