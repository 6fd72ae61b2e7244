// Package loader deserializes prebuilt nearest-neighbor indexes from
// their file formats (.fvi flat files, SQLite vector stores, native
// usearch indexes) and promotes them best-effort to an accelerated
// replica when the dataset is large enough to benefit.
package loader
