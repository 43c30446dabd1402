package analysis

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/edaloom/internal/dataset"
)

// Deduplicate drops rows identical across all columns, keeping the first occurrence in order.
// It returns the number of rows removed.
func Deduplicate(ds *dataset.Dataset) int {
	if len(ds.Rows) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(ds.Rows))
	kept := ds.Rows[:0]
	for _, row := range ds.Rows {
		k := rowKey(ds, row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(ds.Rows) - len(kept)
	for i := len(kept); i < len(ds.Rows); i++ {
		ds.Rows[i] = nil
	}
	ds.Rows = kept
	return removed
}

// CountDuplicates reports how many rows Deduplicate would remove.
func CountDuplicates(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, len(ds.Rows))
	n := 0
	for _, row := range ds.Rows {
		k := rowKey(ds, row)
		if _, dup := seen[k]; dup {
			n++
			continue
		}
		seen[k] = struct{}{}
	}
	return n
}

// rowKey encodes a row so that equal cells give equal keys: numeric cells by value,
// missing cells by a single marker regardless of the token that denoted them.
func rowKey(ds *dataset.Dataset, row []dataset.Value) string {
	var b strings.Builder
	for j, v := range row {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		switch {
		case v.Null:
			b.WriteString("\x00")
		case ds.IsNumeric(j):
			x := v.Num
			if x == 0 {
				x = 0 // -0 and 0 are the same value
			}
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		default:
			b.WriteString(v.Raw)
		}
	}
	return b.String()
}
