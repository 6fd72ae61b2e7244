package result

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/spectra-search/engine"
	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// ErrWrite is reported when the output container cannot be created or
// written; it always travels with the offending path.
var ErrWrite = errors.New("result write failed")

// Dataset (table) names inside a result container, parallel by row.
const (
	DatasetSpectrumIDs = "spectrum_ids"
	DatasetDistances   = "D"
	DatasetNeighbors   = "I"
)

// defaultChunkRows bounds one write transaction / row group.
const defaultChunkRows = 1024

// Options control result writing.
type Options struct {
	// ChunkRows is the number of rows written per transaction.
	ChunkRows int
}

// Option mutates Options.
type Option func(o *Options)

// WithChunkRows overrides the write chunk size.
func WithChunkRows(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.ChunkRows = n
		}
	}
}

// WriteFile persists a search result to path, overwriting any existing
// file. Three parallel datasets are written: spectrum_ids (the synthetic
// sequence 0..Rows-1), D (distances) and I (neighbor keys). A .parquet
// extension selects the Parquet container; everything else is written as
// a SQLite container. The parent directory must exist.
func WriteFile(res *index.Result, path string, optFns ...Option) error {
	opts := Options{ChunkRows: defaultChunkRows}
	for _, fn := range optFns {
		fn(&opts)
	}
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			return writeErr(path, fmt.Errorf("parent directory %q does not exist", dir))
		}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return writeErr(path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return writeParquet(res, path)
	}
	return writeSQLite(res, path, opts.ChunkRows)
}

func writeErr(path string, err error) error {
	return fmt.Errorf("result: %q: %v: %w", path, err, ErrWrite)
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS spectrum_ids (
    row         INTEGER PRIMARY KEY,
    spectrum_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS D (
    row       INTEGER PRIMARY KEY,
    distances BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS I (
    row       INTEGER PRIMARY KEY,
    neighbors BLOB NOT NULL
);
`

// writeSQLite writes the three datasets in chunked transactions so large
// result sets stream to disk incrementally.
func writeSQLite(res *index.Result, path string, chunkRows int) error {
	db, err := engine.Open(path)
	if err != nil {
		return writeErr(path, err)
	}
	defer db.Close()

	if _, err := db.Exec(resultSchema); err != nil {
		return writeErr(path, err)
	}
	for start := 0; start < res.Rows; start += chunkRows {
		end := start + chunkRows
		if end > res.Rows {
			end = res.Rows
		}
		if err := writeChunk(db, res, start, end); err != nil {
			return writeErr(path, err)
		}
	}
	// Zero-query searches still produce a valid, empty container.
	return nil
}

func writeChunk(db *sql.DB, res *index.Result, start, end int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	idStmt, err := tx.Prepare(`INSERT INTO spectrum_ids(row, spectrum_id) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer idStmt.Close()
	dStmt, err := tx.Prepare(`INSERT INTO D(row, distances) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer dStmt.Close()
	iStmt, err := tx.Prepare(`INSERT INTO I(row, neighbors) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer iStmt.Close()

	for row := start; row < end; row++ {
		if _, err := idStmt.Exec(row, row); err != nil {
			return err
		}
		if _, err := dStmt.Exec(row, matrix.EncodeFloat32s(res.DRow(row))); err != nil {
			return err
		}
		if _, err := iStmt.Exec(row, matrix.EncodeInt64s(res.IRow(row))); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReadFile loads a result container written by WriteFile, returning the
// spectrum ids and the packed distances/neighbors.
func ReadFile(path string) ([]int64, *index.Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("result: file %q does not exist: %w", path, fs.ErrNotExist)
		}
		return nil, nil, fmt.Errorf("result: stat %q: %v", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return readParquet(path)
	}
	return readSQLite(path)
}

func readSQLite(path string) ([]int64, *index.Result, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("result: open %q: %v", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`
SELECT s.spectrum_id, d.distances, i.neighbors
FROM spectrum_ids s
JOIN D d ON d.row = s.row
JOIN I i ON i.row = s.row
ORDER BY s.row`)
	if err != nil {
		return nil, nil, fmt.Errorf("result: reading %q: %v", path, err)
	}
	defer rows.Close()

	var ids []int64
	var dRows [][]float32
	var iRows [][]int64
	for rows.Next() {
		var id int64
		var dBlob, iBlob []byte
		if err := rows.Scan(&id, &dBlob, &iBlob); err != nil {
			return nil, nil, fmt.Errorf("result: reading %q: %v", path, err)
		}
		d, err := matrix.DecodeFloat32s(dBlob)
		if err != nil {
			return nil, nil, fmt.Errorf("result: %q: %v", path, err)
		}
		n, err := matrix.DecodeInt64s(iBlob)
		if err != nil {
			return nil, nil, fmt.Errorf("result: %q: %v", path, err)
		}
		ids = append(ids, id)
		dRows = append(dRows, d)
		iRows = append(iRows, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("result: reading %q: %v", path, err)
	}
	return ids, packResult(dRows, iRows), nil
}

func packResult(dRows [][]float32, iRows [][]int64) *index.Result {
	k := 0
	if len(dRows) > 0 {
		k = len(dRows[0])
	}
	res := index.NewResult(len(dRows), k)
	for i := range dRows {
		copy(res.DRow(i), dRows[i])
		copy(res.IRow(i), iRows[i])
	}
	return res
}
