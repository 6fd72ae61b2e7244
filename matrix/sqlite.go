package matrix

import (
	"database/sql"
	"fmt"

	"github.com/viant/spectra-search/engine"
)

// DefaultDataset is the dataset (table) name holding the embedded-spectra
// matrix inside a structured container.
const DefaultDataset = "MATRIX"

// datasetSchema returns the DDL for a matrix dataset table. The dataset
// name is interpolated into SQL; callers must not derive it from untrusted
// input.
func datasetSchema(dataset string) string {
	return `CREATE TABLE IF NOT EXISTS ` + dataset + ` (
    row       INTEGER PRIMARY KEY,
    embedding BLOB NOT NULL
);`
}

// loadSQLite reads a matrix from a SQLite container holding a single
// dataset table of (row, embedding BLOB) pairs, ordered by row.
func loadSQLite(path, dataset string) (*Matrix, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("matrix: open container %s: %v", path, err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT embedding FROM %s ORDER BY row`, dataset))
	if err != nil {
		return nil, fmt.Errorf("matrix: reading dataset %s from %s: %v", dataset, path, err)
	}
	defer rows.Close()

	var vecs [][]float32
	cols := 0
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("matrix: reading dataset %s from %s: %v", dataset, path, err)
		}
		vec, err := DecodeFloat32s(blob)
		if err != nil {
			return nil, fmt.Errorf("matrix: dataset %s in %s: %v", dataset, path, err)
		}
		if cols == 0 {
			cols = len(vec)
		} else if len(vec) != cols {
			return nil, fmt.Errorf("matrix: dataset %s in %s: row %d has %d columns; want %d: %w",
				dataset, path, len(vecs), len(vec), cols, ErrShapeMismatch)
		}
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("matrix: reading dataset %s from %s: %v", dataset, path, err)
	}
	return FromRows(vecs)
}

// SaveSQLite writes a matrix into a SQLite container as a single dataset
// table, one row per matrix row, inside one transaction.
func SaveSQLite(m *Matrix, path, dataset string) error {
	db, err := engine.Open(path)
	if err != nil {
		return fmt.Errorf("matrix: open container %s: %v", path, err)
	}
	defer db.Close()
	if err := writeDataset(db, m, dataset); err != nil {
		return fmt.Errorf("matrix: writing dataset %s to %s: %v", dataset, path, err)
	}
	return nil
}

func writeDataset(db *sql.DB, m *Matrix, dataset string) error {
	if _, err := db.Exec(datasetSchema(dataset)); err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s(row, embedding) VALUES(?, ?)`, dataset))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < m.Rows; i++ {
		if _, err := stmt.Exec(i, EncodeFloat32s(m.Row(i))); err != nil {
			return err
		}
	}
	return tx.Commit()
}
