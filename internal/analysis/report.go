package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Section names the report section a figure belongs to.
type Section string

const (
	SectionMissing     Section = "missing"
	SectionBoxplots    Section = "boxplots"
	SectionCorrelation Section = "correlation"
	SectionPairplot    Section = "pairplot"
)

// Figure is a rendered PNG attached to a report section.
type Figure struct {
	Section Section
	// Name is a file name unique within the report, e.g. "boxplot-01-age.png".
	Name  string
	Title string
	PNG   []byte
}

// Markdown renders the report. link maps a figure to an image URL; figures are omitted
// when link is nil.
func (r *Report) Markdown(link func(Figure) string) string {
	var b strings.Builder
	p := r.Profile
	fmt.Fprintf(&b, "# Exploratory Data Analysis: %s\n\n", safeVal(r.Name))
	fmt.Fprintf(&b, "Run `%s`\n\n", r.RunID)

	fmt.Fprintf(&b, "## First %d Rows of Data\n\n", len(p.Head))
	header := make([]string, len(p.Columns))
	for j, c := range p.Columns {
		header[j] = c.Name
	}
	if len(p.Head) == 0 {
		b.WriteString("_The dataset has no rows._\n\n")
	} else {
		writeMDTable(&b, header, p.Head)
	}

	b.WriteString("## Data Info\n\n```\n")
	b.WriteString(r.InfoText())
	b.WriteString("```\n\n")

	b.WriteString("## Dataset Dimensions and Types\n\n")
	fmt.Fprintf(&b, "Shape: (%d, %d)\n\n", p.Rows, p.Cols)
	fmt.Fprintf(&b, "Number of Columns: %d\n\n", p.Cols)
	b.WriteString("Data Types:\n\n")
	types := make([][]string, len(p.Columns))
	for j, c := range p.Columns {
		types[j] = []string{c.Name, c.DType, string(c.Kind)}
	}
	writeMDTable(&b, []string{"Column", "Dtype", "Kind"}, types)

	b.WriteString("## Descriptive Statistics\n\n")
	if len(p.Describe) == 0 {
		b.WriteString("_No numeric columns._\n\n")
	} else {
		writeMDTable(&b, describeHeader(p.Describe), describeRows(p.Describe))
	}

	b.WriteString("## Duplicate Rows\n\n")
	fmt.Fprintf(&b, "Total Duplicate Rows: %d\n\n", r.DuplicatesRemoved)
	b.WriteString("✓ Duplicates removed\n\n")

	b.WriteString("## Missing Values\n\n")
	miss := make([][]string, len(r.Missing))
	for i, m := range r.Missing {
		miss[i] = []string{m.Column, strconv.Itoa(m.Missing), fmt.Sprintf("%.1f%%", m.Percent)}
	}
	writeMDTable(&b, []string{"Column", "Missing", "Percent"}, miss)
	writeFigures(&b, r.FiguresFor(SectionMissing), link)

	b.WriteString("## Imputing Missing Values with Median\n\n")
	if len(r.Imputations) > 0 {
		imps := make([][]string, len(r.Imputations))
		for i, imp := range r.Imputations {
			imps[i] = []string{imp.Column, formatFloat(imp.Median), strconv.Itoa(imp.Filled)}
		}
		writeMDTable(&b, []string{"Column", "Median", "Filled"}, imps)
	}
	b.WriteString("✓ Missing values imputed successfully\n\n")
	if len(r.Unresolved) > 0 {
		b.WriteString("> **Flagged:** missing values in non-numeric columns are not imputed and remain in the data:\n")
		for _, u := range r.Unresolved {
			fmt.Fprintf(&b, "> - %s: %d missing\n", safeVal(u.Column), u.Missing)
		}
		b.WriteString("\n")
	}
	if len(r.Empty) > 0 {
		b.WriteString("> **Flagged:** columns with no observed values have no median and remain empty:\n")
		for _, e := range r.Empty {
			fmt.Fprintf(&b, "> - %s\n", safeVal(e.Column))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Outlier Treatment\n\n")
	if len(r.Outliers) > 0 {
		rows := make([][]string, len(r.Outliers))
		for i, t := range r.Outliers {
			rows[i] = []string{
				t.Column, formatFloat(t.Q1), formatFloat(t.Q3), formatFloat(t.IQR),
				formatFloat(t.Lower), formatFloat(t.Upper), strconv.Itoa(t.CappedLow), strconv.Itoa(t.CappedHigh),
			}
		}
		writeMDTable(&b, []string{"Column", "Q1", "Q3", "IQR", "Lower", "Upper", "Capped low", "Capped high"}, rows)
	}
	b.WriteString("✓ Outliers treated using IQR method\n\n")

	b.WriteString("## Boxplots After Outlier Treatment\n\n")
	if len(r.Outliers) == 0 {
		b.WriteString("_No numeric columns._\n\n")
	}
	writeFigures(&b, r.FiguresFor(SectionBoxplots), link)

	b.WriteString("## Correlation Heatmap\n\n")
	if r.Corr == nil {
		b.WriteString("_Not enough numeric data for correlations._\n\n")
	} else {
		rows := make([][]string, len(r.Corr.Columns))
		for a, name := range r.Corr.Columns {
			rows[a] = append([]string{name}, make([]string, len(r.Corr.Columns))...)
			for c := range r.Corr.Columns {
				rows[a][c+1] = formatCorr(r.Corr.Values[a][c])
			}
		}
		writeMDTable(&b, append([]string{""}, r.Corr.Columns...), rows)
		writeFigures(&b, r.FiguresFor(SectionCorrelation), link)
	}

	b.WriteString("## Pairplot\n\n")
	switch {
	case !r.Pairplot:
		b.WriteString("_Pairplot not requested; it may take time on wide datasets._\n\n")
	case r.Corr == nil:
		b.WriteString("_Not enough numeric data for a pairplot._\n\n")
	case len(r.FiguresFor(SectionPairplot)) == 0:
		b.WriteString("_Figures were disabled for this run._\n\n")
	default:
		writeFigures(&b, r.FiguresFor(SectionPairplot), link)
	}

	b.WriteString("## Summary\n\n### Key Insights:\n\n")
	for i, s := range r.Insights() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", safeVal(w))
		}
	}
	return b.String()
}

// Insights derives the summary findings of the run.
func (r *Report) Insights() []string {
	out := []string{
		fmt.Sprintf("Data cleaning removed %d duplicate rows and imputed %d missing values with the column median.",
			r.DuplicatesRemoved, r.FilledCells()),
		fmt.Sprintf("Outliers were treated using IQR-based capping: %d values capped across %d numeric columns.",
			r.CappedValues(), len(r.Outliers)),
	}
	if a, c, v, ok := r.Corr.Strongest(); ok {
		out = append(out, fmt.Sprintf("The strongest linear relationship is %s vs %s (r = %.2f).", a, c, v))
	}
	out = append(out, "Boxplots, the correlation heatmap and the optional pairplot show feature distributions and relationships.")
	if len(r.Unresolved) > 0 {
		out = append(out, fmt.Sprintf("%d non-numeric columns still contain missing values and need a decision before modeling.", len(r.Unresolved)))
	}
	if len(r.Empty) > 0 {
		out = append(out, fmt.Sprintf("%d columns have no observed values and can be dropped.", len(r.Empty)))
	}
	if len(r.Unresolved) == 0 && len(r.Empty) == 0 {
		out = append(out, "The data is now ready for model building or further statistical analysis.")
	}
	return out
}

// Strongest returns the off-diagonal pair with the largest absolute correlation.
func (m *CorrMatrix) Strongest() (a, b string, v float64, ok bool) {
	if m == nil {
		return "", "", 0, false
	}
	best := -1.0
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			x := m.Values[i][j]
			if math.IsNaN(x) || math.Abs(x) <= best {
				continue
			}
			best = math.Abs(x)
			a, b, v, ok = m.Columns[i], m.Columns[j], x, true
		}
	}
	return a, b, v, ok
}

func describeHeader(cs []ColumnStats) []string {
	h := []string{""}
	for _, c := range cs {
		h = append(h, c.Column)
	}
	return h
}

// describeRows lays statistics out with one row per measure, one column per dataset column.
func describeRows(cs []ColumnStats) [][]string {
	labels := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rows[i] = []string{l}
	}
	for _, c := range cs {
		vals := []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q1, c.Median, c.Q3, c.Max}
		for i, v := range vals {
			rows[i] = append(rows[i], formatFloat(v))
		}
	}
	return rows
}

func writeMDTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("|")
	for _, h := range header {
		b.WriteString(" " + safeName(h) + " |")
	}
	b.WriteString("\n|")
	for range header {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("|")
		for _, c := range row {
			b.WriteString(" " + safeVal(c) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeFigures(b *strings.Builder, figs []Figure, link func(Figure) string) {
	if link == nil {
		return
	}
	for _, f := range figs {
		fmt.Fprintf(b, "![%s](%s)\n\n", safeVal(f.Title), link(f))
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatCorr(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

func safeName(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
