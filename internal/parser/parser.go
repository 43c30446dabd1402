package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/edaloom/internal/dataset"
)

// Parser reads one tabular file format into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, filename string, opt dataset.Options) (*dataset.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// LoadFile opens path and parses it with the first parser that accepts its name.
func LoadFile(path string, opt dataset.Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Load(f, path, opt)
}

// Load parses an already opened stream; filename only selects the format and names the dataset.
func Load(r io.Reader, filename string, opt dataset.Options) (*dataset.Dataset, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(r, filename, opt)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(filename))
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported tabular format")
