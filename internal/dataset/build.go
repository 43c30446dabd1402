package dataset

import (
	"fmt"
	"math"
	"strings"
)

// maxCategoryLen bounds tokens still treated as categories rather than free text.
const maxCategoryLen = 64

// Build turns a header and raw records into a typed Dataset. Records shorter than the
// header are padded with missing cells; callers reject or widen longer records first.
func Build(name string, header []string, records [][]string, opt Options) (*Dataset, error) {
	if len(header) == 0 {
		return nil, ErrNoColumns
	}
	ncol := len(header)
	for i, rec := range records {
		if len(rec) > ncol {
			return nil, fmt.Errorf("%w: row %d: expected %d fields, saw %d", ErrMalformed, i+1, ncol, len(rec))
		}
	}

	ds := &Dataset{Name: name, Columns: make([]Column, ncol), Rows: make([][]Value, len(records))}
	for i := range ds.Rows {
		ds.Rows[i] = make([]Value, ncol)
	}
	names := columnNames(header)
	for j := 0; j < ncol; j++ {
		col := Column{Name: names[j]}
		_, col.Unit = splitUnits(names[j])
		cells := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = strings.TrimSpace(rec[j])
			}
		}
		inferColumn(&col, cells, ds.Rows, j, opt)
		ds.Columns[j] = col
	}
	return ds, nil
}

// columnNames applies blank-name and duplicate-name mangling: "", "a", "a" -> "Unnamed: 0", "a", "a.1".
func columnNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, h := range header {
		n := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[n] = struct{}{}
		out[i] = n
	}
	for i, n := range out {
		cnt, dup := seen[n]
		seen[n] = cnt + 1
		if !dup {
			continue
		}
		for k := cnt; ; k++ {
			cand := fmt.Sprintf("%s.%d", n, k)
			if _, ok := taken[cand]; !ok {
				out[i] = cand
				taken[cand] = struct{}{}
				break
			}
		}
	}
	return out
}

// inferColumn decides the column kind and fills column j of rows.
func inferColumn(col *Column, cells []string, rows [][]Value, j int, opt Options) {
	nums := make([]float64, len(cells))
	observed, numOK, timeOK, catOK := 0, true, true, true
	integral := true
	for i, v := range cells {
		if IsMissing(v) {
			continue
		}
		observed++
		if numOK {
			if opt.UnitNormalize && strings.Contains(v, "%") && col.Unit == "" {
				col.Unit = "%"
			}
			x, ok := ParseNumeric(v, opt)
			if ok {
				nums[i] = x
				if x != math.Trunc(x) || math.IsInf(x, 0) {
					integral = false
				}
			} else {
				numOK = false
			}
		}
		if timeOK {
			if _, ok := parseTimeMaybe(v); !ok {
				timeOK = false
			}
		}
		if len(v) > maxCategoryLen {
			catOK = false
		}
	}

	switch {
	case observed == 0:
		col.Kind = KindEmpty
	case numOK:
		col.Kind = KindNumeric
	case timeOK:
		col.Kind = KindDatetime
	case catOK:
		col.Kind = KindCategorical
	default:
		col.Kind = KindText
	}

	if col.Kind == KindNumeric && opt.UnitNormalize && col.Unit != "" {
		if _, target, ok := normalizeUnit(0, col.Unit, opt); ok {
			base, _ := splitUnits(col.Name)
			for i := range nums {
				nums[i], _, _ = normalizeUnit(nums[i], col.Unit, opt)
			}
			col.Name = fmt.Sprintf("%s [%s]", base, target)
			col.Unit = target
			integral = false
		}
	}

	missing := 0
	for i, v := range cells {
		cell := Value{Raw: v, Num: math.NaN()}
		if IsMissing(v) {
			cell.Null = true
			missing++
		} else if col.Kind == KindNumeric {
			cell.Num = nums[i]
		}
		rows[i][j] = cell
	}

	switch col.Kind {
	case KindNumeric:
		if integral && missing == 0 {
			col.DType = "int64"
		} else {
			col.DType = "float64"
		}
	case KindEmpty:
		col.DType = "float64"
	default:
		col.DType = "object"
	}
}
