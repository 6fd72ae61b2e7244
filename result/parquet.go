package result

import (
	"fmt"
	"os"
	"sort"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/viant/spectra-search/index"
	"github.com/viant/spectra-search/matrix"
)

// resultRecord is one query row in a Parquet result container. Distances
// and neighbors carry the same little-endian BLOB codecs used by the
// SQLite container.
type resultRecord struct {
	SpectrumID int64  `parquet:"name=spectrum_id, type=INT64"`
	Distances  string `parquet:"name=distances, type=BYTE_ARRAY"`
	Neighbors  string `parquet:"name=neighbors, type=BYTE_ARRAY"`
}

func writeParquet(res *index.Result, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return writeErr(path, err)
	}
	pw, err := writer.NewParquetWriterFromWriter(w, new(resultRecord), 4)
	if err != nil {
		_ = w.Close()
		return writeErr(path, err)
	}
	pw.RowGroupSize = 16 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for row := 0; row < res.Rows; row++ {
		rec := resultRecord{
			SpectrumID: int64(row),
			Distances:  string(matrix.EncodeFloat32s(res.DRow(row))),
			Neighbors:  string(matrix.EncodeInt64s(res.IRow(row))),
		}
		if err := pw.Write(rec); err != nil {
			_ = w.Close()
			return writeErr(path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = w.Close()
		return writeErr(path, err)
	}
	if err := w.Close(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

func readParquet(path string) ([]int64, *index.Result, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("result: open %q: %v", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(resultRecord), 4)
	if err != nil {
		return nil, nil, fmt.Errorf("result: reading %q: %v", path, err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	recs := make([]resultRecord, num)
	if err := pr.Read(&recs); err != nil {
		return nil, nil, fmt.Errorf("result: reading %q: %v", path, err)
	}
	sort.Slice(recs, func(a, b int) bool { return recs[a].SpectrumID < recs[b].SpectrumID })

	ids := make([]int64, 0, num)
	dRows := make([][]float32, 0, num)
	iRows := make([][]int64, 0, num)
	for _, rec := range recs {
		d, err := matrix.DecodeFloat32s([]byte(rec.Distances))
		if err != nil {
			return nil, nil, fmt.Errorf("result: %q: %v", path, err)
		}
		n, err := matrix.DecodeInt64s([]byte(rec.Neighbors))
		if err != nil {
			return nil, nil, fmt.Errorf("result: %q: %v", path, err)
		}
		ids = append(ids, rec.SpectrumID)
		dRows = append(dRows, d)
		iRows = append(iRows, n)
	}
	return ids, packResult(dRows, iRows), nil
}
