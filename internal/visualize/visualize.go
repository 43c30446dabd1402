// Package visualize renders report figures as PNG images.
package visualize

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Options controls which figures are drawn.
type Options struct {
	// Pairplot turns the pairplot on even if the run did not request it.
	Pairplot bool
	Logger   *slog.Logger
}

type step struct {
	name string
	fn   func(*analysis.Report) ([]analysis.Figure, error)
}

// Render draws every figure the report supports and appends them to rep.Figures.
// Order follows the report sections: missing values, boxplots, correlation, pairplot.
func Render(rep *analysis.Report, opt Options) error {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", rep.RunID)

	steps := []step{
		{"missing heatmap", missingHeatmap},
		{"missing bars", missingBars},
		{"boxplots", boxplots},
		{"correlation heatmap", correlationHeatmap},
	}
	if opt.Pairplot {
		rep.Pairplot = true
	}
	if rep.Pairplot {
		steps = append(steps, step{"pairplot", pairplot})
	}
	for _, s := range steps {
		figs, err := s.fn(rep)
		if err != nil {
			return fmt.Errorf("render %s: %w", s.name, err)
		}
		rep.Figures = append(rep.Figures, figs...)
		log.Debug("rendered figures", "kind", s.name, "count", len(figs))
	}
	return nil
}

func encodePlot(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// finite drops NaN and infinite values, which gonum plotters reject.
func finite(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// slug makes a file-name fragment from a column name.
func slug(s string) string {
	out := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return "col"
	}
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}
