package analysis

import (
	"log/slog"

	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/google/uuid"
)

// Options controls a pipeline run.
type Options struct {
	// HeadRows is the number of leading rows shown in the profile; 0 means DefaultHeadRows.
	HeadRows int
	// Pairplot opts in to the pairwise scatter matrix, which is expensive for wide data.
	Pairplot bool
	// Logger receives one record per stage; nil uses slog.Default().
	Logger *slog.Logger
}

// Report collects the outcome of every stage of one run.
type Report struct {
	RunID             string
	Name              string
	Profile           *DatasetProfile
	DuplicatesRemoved int
	Missing           []MissingCount
	MissingMatrix     [][]bool
	Imputations       []Imputation
	Unresolved        []MissingCount
	Empty             []MissingCount
	Outliers          []OutlierTreatment
	Corr              *CorrMatrix
	Pairplot          bool
	Warnings          []string
	// Data is the dataset after every cleaning stage.
	Data    *dataset.Dataset
	Figures []Figure
}

// Run threads ds through profile, dedup, missing-value detection, median imputation,
// outlier capping and correlation, in that order. ds is mutated in place.
func Run(ds *dataset.Dataset, opt Options) *Report {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	rep := &Report{
		RunID:    uuid.NewString(),
		Name:     ds.Name,
		Pairplot: opt.Pairplot,
		Warnings: append([]string(nil), ds.Warnings...),
	}
	log = log.With("run_id", rep.RunID, "dataset", ds.Name)

	rep.Profile = Profile(ds, opt.HeadRows)
	log.Info("profiled dataset", "rows", rep.Profile.Rows, "cols", rep.Profile.Cols, "numeric", len(rep.Profile.Describe))

	rep.DuplicatesRemoved = Deduplicate(ds)
	log.Info("removed duplicate rows", "removed", rep.DuplicatesRemoved)

	rep.Missing = MissingCounts(ds)
	rep.MissingMatrix = MissingMatrix(ds)
	rep.Imputations = ImputeMedian(ds)
	rep.Unresolved = UnresolvedMissing(ds)
	rep.Empty = EmptyColumns(ds)
	log.Info("imputed missing values", "filled", rep.FilledCells(), "columns", len(rep.Imputations))
	for _, u := range rep.Unresolved {
		log.Warn("non-numeric column keeps missing values", "column", u.Column, "missing", u.Missing)
	}
	for _, e := range rep.Empty {
		log.Warn("column has no observed values, median undefined", "column", e.Column, "missing", e.Missing)
	}

	rep.Outliers = TreatOutliers(ds)
	log.Info("treated outliers", "capped", rep.CappedValues(), "columns", len(rep.Outliers))

	rep.Corr = Correlation(ds)
	if rep.Corr == nil {
		log.Debug("correlation skipped", "reason", "fewer than one numeric column or two complete rows")
	}

	rep.Data = ds
	return rep
}

// FilledCells is the number of cells written by median imputation.
func (r *Report) FilledCells() int {
	n := 0
	for _, imp := range r.Imputations {
		n += imp.Filled
	}
	return n
}

// CappedValues is the number of values moved onto an IQR fence.
func (r *Report) CappedValues() int {
	n := 0
	for _, t := range r.Outliers {
		n += t.CappedLow + t.CappedHigh
	}
	return n
}

// FiguresFor returns the figures of one report section in insertion order.
func (r *Report) FiguresFor(s Section) []Figure {
	var out []Figure
	for _, f := range r.Figures {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}
