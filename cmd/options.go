package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/edaloom/internal/dataset"
)

// ingestSettings are the raw, user-facing ingestion settings from config and flags.
type ingestSettings struct {
	Delimiter     string
	Decimal       string
	Thousands     string
	UnitNormalize bool
	MaxRows       int
	SheetName     string
	SheetIndex    int
}

func (s ingestSettings) options() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	var err error
	if opt.Delimiter, err = parseDelimiter(s.Delimiter); err != nil {
		return opt, err
	}
	if opt.DecimalSeparator, err = parseDecimal(s.Decimal); err != nil {
		return opt, err
	}
	if opt.ThousandsSeparator, err = parseThousands(s.Thousands); err != nil {
		return opt, err
	}
	if s.MaxRows < 0 {
		return opt, fmt.Errorf("invalid max rows: %d", s.MaxRows)
	}
	opt.MaxRows = s.MaxRows
	opt.UnitNormalize = s.UnitNormalize
	opt.SheetName = s.SheetName
	if s.SheetIndex > 0 {
		opt.SheetIndex = s.SheetIndex
	}
	return opt, nil
}

func configIngestSettings() ingestSettings {
	return ingestSettings{
		Delimiter:     cfg.Delimiter,
		Decimal:       cfg.DecimalSeparator,
		Thousands:     cfg.ThousandsSeparator,
		UnitNormalize: cfg.UnitNormalize,
		MaxRows:       cfg.MaxRows,
	}
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab'|'|')", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	case "auto":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma'|'auto')", s)
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return 0, nil
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case " ", "space":
		return ' ', nil
	case "'":
		return '\'', nil
	}
	return 0, fmt.Errorf("unsupported thousands separator: %q (use ','|'.'|'space'|'none')", s)
}
