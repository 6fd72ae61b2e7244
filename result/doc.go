// Package result persists kNN search results to structured containers:
// three parallel datasets (spectrum_ids, D, I) written row-aligned to a
// SQLite database (default) or a Parquet file, chunked for incremental
// I/O, and read back for inspection and tests.
package result
