package analysis

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineFixture(t *testing.T) *Report {
	t.Helper()
	ds := build(t, []string{"a", "b", "label"},
		[]string{"1", "10", "x"},
		[]string{"1", "10", "x"},
		[]string{"2", "", "y"},
		[]string{"3", "30", ""},
		[]string{"4", "40", "z"},
		[]string{"100", "50", "z"},
	)
	return Run(ds, Options{HeadRows: 3, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
}

func TestRunThreadsStagesInOrder(t *testing.T) {
	rep := pipelineFixture(t)

	_, err := uuid.Parse(rep.RunID)
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Profile.Rows)
	assert.Len(t, rep.Profile.Head, 3)
	assert.Equal(t, 1, rep.DuplicatesRemoved)
	assert.Equal(t, 1, rep.FilledCells())
	assert.Equal(t, Imputation{Column: "b", Median: 35, Filled: 1}, rep.Imputations[1])
	require.Len(t, rep.Unresolved, 1)
	assert.Equal(t, "label", rep.Unresolved[0].Column)

	require.Len(t, rep.Outliers, 2)
	assert.Equal(t, 7.0, rep.Outliers[0].Upper)
	assert.Equal(t, 1, rep.Outliers[0].CappedHigh)
	assert.Equal(t, 15.0, rep.Outliers[1].Lower)
	assert.Equal(t, 1, rep.Outliers[1].CappedLow)
	assert.Equal(t, 2, rep.CappedValues())

	data := rep.Data
	require.Len(t, data.Rows, 5)
	assert.Equal(t, []float64{1, 2, 3, 4, 7}, column(data, 0))
	assert.Equal(t, []float64{15, 35, 30, 40, 50}, column(data, 1))
	require.NotNil(t, rep.Corr)
	assert.Equal(t, []string{"a", "b"}, rep.Corr.Columns)
}

func TestRunProfilesBeforeCleaning(t *testing.T) {
	rep := pipelineFixture(t)
	assert.Equal(t, 6, rep.Profile.Describe[0].Count)
	assert.Equal(t, 100.0, rep.Profile.Describe[0].Max)
}

func TestRunLogsEachStage(t *testing.T) {
	var buf bytes.Buffer
	ds := build(t, []string{"a"}, []string{"1"}, []string{"1"})
	rep := Run(ds, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	out := buf.String()
	for _, want := range []string{"profiled dataset", "removed duplicate rows", "imputed missing values", "treated outliers", "run_id=" + rep.RunID} {
		assert.Contains(t, out, want)
	}
}

func TestMarkdownSections(t *testing.T) {
	rep := pipelineFixture(t)
	rep.Figures = append(rep.Figures,
		Figure{Section: SectionBoxplots, Name: "boxplot-01-a.png", Title: "Boxplot for a"},
		Figure{Section: SectionMissing, Name: "missing-heatmap.png", Title: "Missing values"},
	)
	md := rep.Markdown(func(f Figure) string { return "figures/" + f.Name })

	sections := []string{
		"## First 3 Rows of Data", "## Data Info", "## Dataset Dimensions and Types", "## Descriptive Statistics",
		"## Duplicate Rows", "## Missing Values", "## Imputing Missing Values with Median", "## Outlier Treatment",
		"## Boxplots After Outlier Treatment", "## Correlation Heatmap", "## Pairplot", "## Summary",
	}
	last := -1
	for _, s := range sections {
		i := strings.Index(md, s)
		require.GreaterOrEqual(t, i, 0, "missing section %q", s)
		assert.Greater(t, i, last, "section %q out of order", s)
		last = i
	}
	assert.Contains(t, md, "Total Duplicate Rows: 1")
	assert.Contains(t, md, "Shape: (6, 3)")
	assert.Contains(t, md, "**Flagged:**")
	assert.Contains(t, md, "- label: 1 missing")
	assert.Contains(t, md, "| b | 35 | 1 |")
	assert.Contains(t, md, "![Boxplot for a](figures/boxplot-01-a.png)")
	assert.Contains(t, md, "Pairplot not requested")
	assert.Contains(t, md, "RangeIndex: 6 entries, 0 to 5")

	assert.NotContains(t, rep.Markdown(nil), "![")
}

func TestMarkdownWithoutNumericColumns(t *testing.T) {
	ds := build(t, []string{"s"}, []string{"x"}, []string{"y"})
	rep := Run(ds, Options{Pairplot: true, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	md := rep.Markdown(nil)
	assert.Contains(t, md, "_No numeric columns._")
	assert.Contains(t, md, "_Not enough numeric data for correlations._")
	assert.Contains(t, md, "_Not enough numeric data for a pairplot._")
}

func TestMarkdownPairplotWithoutFigures(t *testing.T) {
	ds := build(t, []string{"x", "y"}, []string{"1", "2"}, []string{"2", "5"}, []string{"3", "4"})
	rep := Run(ds, Options{Pairplot: true, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	md := rep.Markdown(func(f Figure) string { return "figures/" + f.Name })
	assert.Contains(t, md, "## Pairplot\n\n_Figures were disabled for this run._")

	rep.Figures = append(rep.Figures, Figure{Section: SectionPairplot, Name: "pairplot.png", Title: "Pairplot"})
	md = rep.Markdown(func(f Figure) string { return "figures/" + f.Name })
	assert.NotContains(t, md, "Figures were disabled")
	assert.Contains(t, md, "![Pairplot](figures/pairplot.png)")
}

func TestRunFlagsAllMissingColumnSeparately(t *testing.T) {
	var buf bytes.Buffer
	ds := build(t, []string{"a", "x"}, []string{"", "1"}, []string{"NA", "2"})
	rep := Run(ds, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	assert.Empty(t, rep.Unresolved)
	require.Len(t, rep.Empty, 1)
	assert.Equal(t, "a", rep.Empty[0].Column)
	assert.Contains(t, buf.String(), "column has no observed values, median undefined")
	assert.NotContains(t, buf.String(), "non-numeric column keeps missing values")

	md := rep.Markdown(nil)
	assert.Contains(t, md, "columns with no observed values have no median")
	assert.NotContains(t, md, "missing values in non-numeric columns")

	var out bytes.Buffer
	require.NoError(t, rep.WriteText(&out))
	assert.Contains(t, out.String(), "a: no observed values, median undefined")
	assert.NotContains(t, out.String(), "non-numeric column")
}

func TestWriteText(t *testing.T) {
	rep := pipelineFixture(t)
	rep.Warnings = append(rep.Warnings, "processed only 5/6 rows due to MaxRows")
	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "✓ Duplicates removed")
	assert.Contains(t, out, "✓ Outliers treated using IQR method")
	assert.Contains(t, out, "label: 1 missing values left in a non-numeric column")
	assert.Contains(t, out, "processed only 5/6 rows")
	assert.Contains(t, out, "Non-Null Count")
}
