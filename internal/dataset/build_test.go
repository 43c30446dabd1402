package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInfersKindsAndDTypes(t *testing.T) {
	header := []string{"id", "score", "when", "label", "blank"}
	records := [][]string{
		{"1", "10.5", "2024-08-10", "alpha", ""},
		{"2", "NaN", "2024-08-12", "beta", "NA"},
		{"3", "9", "2024-08-15", "", ""},
	}
	ds, err := Build("t.csv", header, records, DefaultOptions())
	require.NoError(t, err)

	rows, cols := ds.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 5, cols)

	kinds := []Kind{KindNumeric, KindNumeric, KindDatetime, KindCategorical, KindEmpty}
	dtypes := []string{"int64", "float64", "object", "object", "float64"}
	for j := range header {
		assert.Equal(t, kinds[j], ds.Columns[j].Kind, "kind of %s", header[j])
		assert.Equal(t, dtypes[j], ds.Columns[j].DType, "dtype of %s", header[j])
	}
	assert.Equal(t, []int{0, 1}, ds.NumericColumns())
	assert.True(t, ds.Rows[1][1].Null)
	assert.True(t, math.IsNaN(ds.Rows[1][1].Num))
	assert.Equal(t, []float64{10.5, 9}, ds.Floats(1))
	assert.Equal(t, 1, ds.MissingIn(3))
}

func TestBuildMixedColumnIsNotNumeric(t *testing.T) {
	ds, err := Build("m.csv", []string{"v"}, [][]string{{"1"}, {"2"}, {"abc"}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, KindCategorical, ds.Columns[0].Kind)
	assert.Empty(t, ds.NumericColumns())
}

func TestBuildPadsShortRowsAndRejectsLongOnes(t *testing.T) {
	ds, err := Build("p.csv", []string{"a", "b"}, [][]string{{"1"}, {"2", "3"}}, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, ds.Rows[0][1].Null)

	_, err = Build("p.csv", []string{"a", "b"}, [][]string{{"1", "2", "3"}}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestBuildWithoutHeader(t *testing.T) {
	_, err := Build("e.csv", nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestColumnNamesMangling(t *testing.T) {
	got := columnNames([]string{"a", "", "a", "b", "a", "a.1"})
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.2", "b", "a.3", "a.1"}, got)
	assert.Equal(t, []string{"x", "x.1"}, columnNames([]string{"x", "x"}))
}

func TestBuildUnitNormalization(t *testing.T) {
	opt := DefaultOptions()
	opt.UnitNormalize = true
	ds, err := Build("u.csv", []string{"Concentration (g/L)", "Temp (°F)"}, [][]string{{"0.5", "212"}}, opt)
	require.NoError(t, err)
	assert.Equal(t, "Concentration [mg/L]", ds.Columns[0].Name)
	assert.InDelta(t, 500.0, ds.Rows[0][0].Num, 1e-9)
	assert.Equal(t, "°C", ds.Columns[1].Unit)
	assert.InDelta(t, 100.0, ds.Rows[0][1].Num, 1e-9)
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		dec  rune
		thou rune
		norm bool
		want float64
		ok   bool
	}{
		{"1.5", '.', 0, false, 1.5, true},
		{"12.5%", '.', 0, false, 0, false},
		{"12.5%", '.', 0, true, 12.5, true},
		{"1,5", '.', 0, false, 0, false},
		{"1,5", ',', 0, false, 1.5, true},
		{"1.000,25", ',', '.', false, 1000.25, true},
		{"1.000,25", 0, 0, false, 1000.25, true},
		{"1,000.25", 0, 0, false, 1000.25, true},
		{"1e3", '.', 0, false, 1000, true},
		{"inf", '.', 0, false, math.Inf(1), true},
		{"abc", '.', 0, false, 0, false},
	}
	for _, c := range cases {
		opt := DefaultOptions()
		opt.DecimalSeparator = c.dec
		opt.ThousandsSeparator = c.thou
		opt.UnitNormalize = c.norm
		got, ok := ParseNumeric(c.in, opt)
		assert.Equal(t, c.ok, ok, "ok for %q", c.in)
		switch {
		case c.ok && math.IsInf(c.want, 0):
			assert.Equal(t, c.want, got, "value for %q", c.in)
		case c.ok:
			assert.InDelta(t, c.want, got, 1e-9, "value for %q", c.in)
		}
	}
}

func TestBuildPercentColumnNeedsUnitNormalize(t *testing.T) {
	header := []string{"rate"}
	records := [][]string{{"50%"}, {"12.5%"}}
	ds, err := Build("p.csv", header, records, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, KindCategorical, ds.Columns[0].Kind)
	assert.Equal(t, "object", ds.Columns[0].DType)

	opt := DefaultOptions()
	opt.UnitNormalize = true
	ds, err = Build("p.csv", header, records, opt)
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, ds.Columns[0].Kind)
	assert.Equal(t, "%", ds.Columns[0].Unit)
	assert.Equal(t, []float64{50, 12.5}, ds.Floats(0))
}

func TestBuildInfiniteIsFloat(t *testing.T) {
	ds, err := Build("i.csv", []string{"v"}, [][]string{{"1"}, {"inf"}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, ds.Columns[0].Kind)
	assert.Equal(t, "float64", ds.Columns[0].DType)
}

func TestCloneIsDeep(t *testing.T) {
	ds, err := Build("c.csv", []string{"a"}, [][]string{{"1"}}, DefaultOptions())
	require.NoError(t, err)
	cp := ds.Clone()
	cp.Rows[0][0].SetNum(42)
	assert.Equal(t, 1.0, ds.Rows[0][0].Num)
	assert.Equal(t, "42", cp.Rows[0][0].Raw)
}
