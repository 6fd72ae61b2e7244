package matrix

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is reported when a file extension does not map to a
// known matrix encoding.
var ErrUnsupportedFormat = errors.New("unsupported matrix format")

// Options control container loading.
type Options struct {
	// Dataset is the dataset (table) name inside structured containers.
	Dataset string
}

// Option mutates Options.
type Option func(o *Options)

// WithDataset overrides the dataset name used for structured containers.
func WithDataset(name string) Option {
	return func(o *Options) { o.Dataset = name }
}

func applyOptions(optFns []Option) Options {
	opts := Options{Dataset: DefaultDataset}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// LoadFile loads a query matrix from a single file, dispatching on the
// file extension:
//
//	.txt, .tsv            plain-text whitespace-delimited matrix
//	.fvm                  raw binary matrix
//	.db, .sqlite, .sqlite3  SQLite container, one dataset table
//	.parquet              Parquet container
//
// A missing file reports an error wrapping fs.ErrNotExist; any other
// extension reports ErrUnsupportedFormat, both naming the path.
func LoadFile(path string, optFns ...Option) (*Matrix, error) {
	opts := applyOptions(optFns)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("matrix: file %q does not exist: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("matrix: stat %q: %v", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("matrix: open %q: %v", path, err)
		}
		defer f.Close()
		m, err := ParseText(f)
		if err != nil {
			return nil, fmt.Errorf("%v (file %q)", err, path)
		}
		return m, nil
	case ".fvm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("matrix: read %q: %v", path, err)
		}
		m := &Matrix{}
		if err := m.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("%v (file %q)", err, path)
		}
		return m, nil
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(path, opts.Dataset)
	case ".parquet":
		return loadParquet(path)
	default:
		return nil, fmt.Errorf("matrix: unknown extension %q for file %q: %w", ext, path, ErrUnsupportedFormat)
	}
}

// LoadAll loads each path via LoadFile in the given order and stacks the
// matrices row-wise, preserving row order within each file. Differing
// column counts across files report ErrShapeMismatch naming the offending
// path.
func LoadAll(paths []string, optFns ...Option) (*Matrix, error) {
	ms := make([]*Matrix, 0, len(paths))
	cols := 0
	for _, p := range paths {
		m, err := LoadFile(p, optFns...)
		if err != nil {
			return nil, err
		}
		if m.Rows > 0 {
			if cols == 0 {
				cols = m.Cols
			} else if m.Cols != cols {
				return nil, fmt.Errorf("matrix: file %q has %d columns; want %d: %w", p, m.Cols, cols, ErrShapeMismatch)
			}
		}
		ms = append(ms, m)
	}
	return Stack(ms)
}
