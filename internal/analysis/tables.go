package analysis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// InfoText renders the column listing with non-null counts and dtypes.
func (r *Report) InfoText() string {
	p := r.Profile
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Name)
	if p.Rows > 0 {
		fmt.Fprintf(&b, "RangeIndex: %d entries, 0 to %d\n", p.Rows, p.Rows-1)
	} else {
		b.WriteString("RangeIndex: 0 entries\n")
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", p.Cols)

	t := plainTable(&b)
	t.SetHeader([]string{"#", "Column", "Non-Null Count", "Dtype"})
	for j, c := range p.Columns {
		t.Append([]string{strconv.Itoa(j), c.Name, fmt.Sprintf("%d non-null", c.NonNull), c.DType})
	}
	t.Render()

	parts := make([]string, len(p.DTypeCounts))
	for i, dc := range p.DTypeCounts {
		parts[i] = fmt.Sprintf("%s(%d)", dc.DType, dc.Count)
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	return b.String()
}

// WriteText prints a terminal rendering of the report.
func (r *Report) WriteText(w io.Writer) error {
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	p := r.Profile

	bold.Fprintf(w, "Exploratory Data Analysis: %s\n", r.Name)
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	fmt.Fprintf(w, "Shape: (%d, %d)\n\n", p.Rows, p.Cols)

	bold.Fprintln(w, "Data Info")
	fmt.Fprintln(w, r.InfoText())

	bold.Fprintln(w, "Descriptive Statistics")
	if len(p.Describe) == 0 {
		fmt.Fprintln(w, "No numeric columns.")
	} else {
		t := boxTable(w)
		t.SetHeader(describeHeader(p.Describe))
		t.AppendBulk(describeRows(p.Describe))
		t.Render()
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total Duplicate Rows: %d\n", r.DuplicatesRemoved)
	ok.Fprintln(w, "✓ Duplicates removed")
	fmt.Fprintln(w)

	bold.Fprintln(w, "Missing Values")
	t := boxTable(w)
	t.SetHeader([]string{"Column", "Missing", "Percent"})
	for _, m := range r.Missing {
		t.Append([]string{m.Column, strconv.Itoa(m.Missing), fmt.Sprintf("%.1f%%", m.Percent)})
	}
	t.Render()
	ok.Fprintf(w, "✓ Missing values imputed successfully (%d cells)\n", r.FilledCells())
	for _, u := range r.Unresolved {
		warn.Fprintf(w, "! %s: %d missing values left in a non-numeric column\n", u.Column, u.Missing)
	}
	for _, e := range r.Empty {
		warn.Fprintf(w, "! %s: no observed values, median undefined\n", e.Column)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "Outlier Treatment")
	if len(r.Outliers) > 0 {
		t = boxTable(w)
		t.SetHeader([]string{"Column", "Lower", "Upper", "Capped low", "Capped high"})
		for _, o := range r.Outliers {
			t.Append([]string{o.Column, formatFloat(o.Lower), formatFloat(o.Upper), strconv.Itoa(o.CappedLow), strconv.Itoa(o.CappedHigh)})
		}
		t.Render()
	}
	ok.Fprintln(w, "✓ Outliers treated using IQR method")
	fmt.Fprintln(w)

	if r.Corr != nil {
		bold.Fprintln(w, "Correlation")
		t = boxTable(w)
		t.SetHeader(append([]string{""}, r.Corr.Columns...))
		for a, name := range r.Corr.Columns {
			row := []string{name}
			for c := range r.Corr.Columns {
				row = append(row, formatCorr(r.Corr.Values[a][c]))
			}
			t.Append(row)
		}
		t.Render()
		fmt.Fprintln(w)
	}

	bold.Fprintln(w, "Key Insights")
	for i, s := range r.Insights() {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
	for _, n := range r.Warnings {
		warn.Fprintf(w, "! %s\n", n)
	}
	return nil
}

func boxTable(w io.Writer) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

func plainTable(w io.Writer) *tablewriter.Table {
	t := boxTable(w)
	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetColumnSeparator("")
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetTablePadding("  ")
	t.SetNoWhiteSpace(true)
	return t
}
