package matrix

import (
	"fmt"
	"os"
	"sort"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// matrixRecord is one matrix row in a Parquet container. The embedding
// column carries the same little-endian float32 BLOB used by the SQLite
// containers, so the two formats load bit-for-bit identically.
type matrixRecord struct {
	Row       int64  `parquet:"name=row, type=INT64"`
	Embedding string `parquet:"name=embedding, type=BYTE_ARRAY"`
}

// loadParquet reads a matrix from a Parquet container of (row, embedding)
// records. Records are ordered by their row column.
func loadParquet(path string) (*Matrix, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("matrix: open container %s: %v", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(matrixRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("matrix: reading container %s: %v", path, err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	recs := make([]matrixRecord, num)
	if err := pr.Read(&recs); err != nil {
		return nil, fmt.Errorf("matrix: reading container %s: %v", path, err)
	}
	sort.Slice(recs, func(a, b int) bool { return recs[a].Row < recs[b].Row })

	vecs := make([][]float32, 0, num)
	cols := 0
	for i, rec := range recs {
		vec, err := DecodeFloat32s([]byte(rec.Embedding))
		if err != nil {
			return nil, fmt.Errorf("matrix: container %s: %v", path, err)
		}
		if cols == 0 {
			cols = len(vec)
		} else if len(vec) != cols {
			return nil, fmt.Errorf("matrix: container %s: row %d has %d columns; want %d: %w",
				path, i, len(vec), cols, ErrShapeMismatch)
		}
		vecs = append(vecs, vec)
	}
	return FromRows(vecs)
}

// SaveParquet writes a matrix into a Parquet container of (row, embedding)
// records with SNAPPY compression.
func SaveParquet(m *Matrix, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("matrix: create container %s: %v", path, err)
	}
	pw, err := writer.NewParquetWriterFromWriter(w, new(matrixRecord), 4)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("matrix: writing container %s: %v", path, err)
	}
	pw.RowGroupSize = 16 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := 0; i < m.Rows; i++ {
		rec := matrixRecord{Row: int64(i), Embedding: string(EncodeFloat32s(m.Row(i)))}
		if err := pw.Write(rec); err != nil {
			_ = w.Close()
			return fmt.Errorf("matrix: writing container %s: %v", path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = w.Close()
		return fmt.Errorf("matrix: writing container %s: %v", path, err)
	}
	return w.Close()
}
