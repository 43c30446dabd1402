package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Parse reads the selected sheet. The first row is the header; rows wider than it get
// unnamed columns, as spreadsheets commonly leave header cells blank.
func (xlsxParser) Parse(r io.Reader, filename string, opt dataset.Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex, filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, dataset.ErrNoColumns
	}
	header := rows[0]
	var records [][]string
	total := 0
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		total++
		for len(header) < len(row) {
			header = append(header, "")
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			continue
		}
		records = append(records, row)
	}

	name := filepath.Base(filename)
	if opt.SheetName != "" {
		name = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	ds, err := dataset.Build(name, header, records, opt)
	if err != nil {
		return nil, err
	}
	if len(records) < total {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(records), total))
	}
	return ds, nil
}

// selectSheet resolves a sheet by case-insensitive name, else by 1-based index.
func selectSheet(sheets []string, name string, index int, file string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", file)
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			name, file, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range in workbook '%s' (%d sheets)", index, file, len(sheets))
	}
	return sheets[index-1], nil
}
