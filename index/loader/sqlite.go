package loader

import (
	"fmt"

	"github.com/viant/spectra-search/engine"
	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/index/flat"
	"github.com/viant/spectra-search/matrix"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS vectors (
    key       INTEGER PRIMARY KEY,
    embedding BLOB NOT NULL
);
`

// loadSQLiteStore reads every (key, embedding) row of a SQLite vector
// store in key order and builds a flat index from them.
func loadSQLiteStore(path string) (*flat.Index, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %v", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT key, embedding FROM vectors ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
	}
	defer rows.Close()

	var keys []int64
	var vecs [][]float32
	for rows.Next() {
		var key int64
		var blob []byte
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
		}
		vec, err := matrix.DecodeFloat32s(blob)
		if err != nil {
			return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
		}
		keys = append(keys, key)
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
	}
	m, err := matrix.FromRows(vecs)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %v: %w", path, err, index.ErrInvalidIndex)
	}
	return flat.Build(keys, m)
}

// SaveSQLiteStore persists keys and vectors as a SQLite vector store
// loadable by Load. Used by tests and index preparation tooling.
func SaveSQLiteStore(path string, keys []int64, vectors *matrix.Matrix) error {
	if keys != nil && len(keys) != vectors.Rows {
		return fmt.Errorf("loader: keys and vectors length mismatch: %d != %d", len(keys), vectors.Rows)
	}
	db, err := engine.Open(path)
	if err != nil {
		return fmt.Errorf("loader: open %q: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(storeSchema); err != nil {
		return fmt.Errorf("loader: writing store %q: %v", path, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("loader: writing store %q: %v", path, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO vectors(key, embedding) VALUES(?, ?)`)
	if err != nil {
		return fmt.Errorf("loader: writing store %q: %v", path, err)
	}
	defer stmt.Close()

	for i := 0; i < vectors.Rows; i++ {
		key := int64(i)
		if keys != nil {
			key = keys[i]
		}
		if _, err := stmt.Exec(key, matrix.EncodeFloat32s(vectors.Row(i))); err != nil {
			return fmt.Errorf("loader: writing store %q: %v", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("loader: writing store %q: %v", path, err)
	}
	return nil
}
