package search

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/viant/spectra-search/index/loader"
	"github.com/viant/spectra-search/matrix"
	"github.com/viant/spectra-search/result"
)

// Run executes one search job end to end: load the index, load and
// concatenate the embedded spectra files in job order, search, and write
// the result container. Indexes holding native resources are closed before
// returning.
func Run(job Job, lg zerolog.Logger) error {
	if job.K == 0 {
		job.K = DefaultK
	}
	if err := job.validate(); err != nil {
		return err
	}
	mode, err := loader.ParseMode(job.Accelerate)
	if err != nil {
		return err
	}

	idx, err := loader.Load(job.Index, loader.WithAccelerate(mode), loader.WithLogger(lg))
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := idx.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	parts := make([]*matrix.Matrix, 0, len(job.Embedded))
	for _, path := range job.Embedded {
		m, err := matrix.LoadFile(path)
		if err != nil {
			return err
		}
		lg.Info().Str("file", path).Int("rows", m.Rows).Int("cols", m.Cols).
			Msg("loaded embedded spectra")
		parts = append(parts, m)
	}
	queries, err := matrix.Stack(parts)
	if err != nil {
		return err
	}
	if queries.Rows > 0 && queries.Cols != idx.Dimension() {
		return fmt.Errorf("search: query dimension %d does not match index dimension %d: %w",
			queries.Cols, idx.Dimension(), matrix.ErrShapeMismatch)
	}
	lg.Info().Int("queries", queries.Rows).Int("k", job.K).Msg("searching")

	res, err := Search(idx, queries, job.K)
	if err != nil {
		return err
	}
	if err := result.WriteFile(res, job.Out); err != nil {
		return err
	}
	lg.Info().Str("out", job.Out).Int("rows", res.Rows).Msg("wrote result")
	return nil
}
