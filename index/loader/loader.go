package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/index/flat"
	"github.com/viant/spectra-search/index/usearch"
	"github.com/viant/spectra-search/index/vptree"
)

// Mode selects whether a loaded flat index is promoted to an accelerated
// VP-tree replica.
type Mode string

const (
	// ModeAuto promotes when the dataset passes the density heuristic.
	ModeAuto Mode = "auto"
	// ModeOn always promotes.
	ModeOn Mode = "on"
	// ModeOff never promotes.
	ModeOff Mode = "off"
)

// Promotion thresholds; below them the plain scan wins on build cost.
const (
	autoAccelMinVectors         = 4000
	autoAccelMinDim             = 64
	autoAccelMinDensity float64 = 16
)

// Options control index loading.
type Options struct {
	Accelerate Mode
	Logger     zerolog.Logger
}

// Option mutates Options.
type Option func(o *Options)

// WithAccelerate sets the acceleration mode.
func WithAccelerate(m Mode) Option {
	return func(o *Options) { o.Accelerate = m }
}

// WithLogger injects the logger used to report which load path was taken.
func WithLogger(lg zerolog.Logger) Option {
	return func(o *Options) { o.Logger = lg }
}

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeOn:
		return ModeOn, nil
	case ModeOff:
		return ModeOff, nil
	default:
		return "", fmt.Errorf("loader: unknown acceleration mode %q (want auto, on or off)", s)
	}
}

// Load deserializes a prebuilt index from path, dispatching on the file
// extension:
//
//	.fvi                    flat vector index file
//	.db, .sqlite, .sqlite3  SQLite vector store
//	.usearch                native usearch index
//
// Flat and SQLite-backed indexes are promoted best-effort to a VP-tree
// replica per Options.Accelerate; promotion failure falls back to the flat
// scan and is logged, never fatal. Indexes holding native resources
// implement io.Closer; callers should close them after the last search.
func Load(path string, optFns ...Option) (index.Index, error) {
	opts := Options{Accelerate: ModeAuto, Logger: zerolog.Nop()}
	for _, fn := range optFns {
		fn(&opts)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loader: index file %q does not exist: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("loader: stat %q: %v", path, err)
	}

	var base *flat.Index
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".fvi":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loader: read %q: %v", path, err)
		}
		base = &flat.Index{}
		if err := base.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
		}
	case ".db", ".sqlite", ".sqlite3":
		var err error
		base, err = loadSQLiteStore(path)
		if err != nil {
			return nil, err
		}
	case ".usearch":
		idx, err := usearch.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, index.ErrInvalidIndex)
		}
		opts.Logger.Info().Str("index", path).Str("backend", "usearch").
			Int("vectors", idx.Len()).Int("dimension", idx.Dimension()).
			Msg("loaded native index")
		return idx, nil
	default:
		return nil, fmt.Errorf("loader: unknown extension %q for index %q: %w", ext, path, index.ErrUnsupportedFormat)
	}

	return accelerate(base, path, opts), nil
}

// accelerate promotes a flat index to a VP-tree replica when the mode and
// heuristic allow it.
func accelerate(base *flat.Index, path string, opts Options) index.Index {
	lg := opts.Logger
	promote := false
	switch opts.Accelerate {
	case ModeOn:
		promote = true
	case ModeOff:
	default:
		promote = autoPromote(base.Len(), base.Dimension())
	}
	if !promote {
		lg.Info().Str("index", path).Str("backend", "flat").
			Int("vectors", base.Len()).Int("dimension", base.Dimension()).
			Msg("loaded index")
		return base
	}
	accel, err := vptree.Build(base.Keys(), base.Vectors())
	if err != nil {
		lg.Warn().Str("index", path).Err(err).Msg("acceleration failed; falling back to flat search")
		return base
	}
	lg.Info().Str("index", path).Str("backend", "vptree").
		Int("vectors", accel.Len()).Int("dimension", accel.Dimension()).
		Msg("loaded index with accelerated replica")
	return accel
}

func autoPromote(n, dim int) bool {
	if n < autoAccelMinVectors || dim < autoAccelMinDim {
		return false
	}
	return float64(n)/float64(dim) >= autoAccelMinDensity
}
