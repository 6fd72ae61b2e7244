// Package matrix loads embedded-spectra query matrices from the file
// formats used by this project and stacks them into a single contiguous
// float32 matrix. It includes:
//   - Matrix: dense row-major float32 storage
//   - Text, binary (.fvm), SQLite and Parquet container codecs
//   - LoadFile/LoadAll with extension dispatch and row-wise stacking
//   - Embedding BLOB encoding shared with the index and result containers
package matrix
