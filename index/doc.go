// Package index defines the abstraction over nearest-neighbor search
// backends: a read-only Index that answers batched kNN queries with
// squared L2 distances, and the packed Result they produce.
// Implementations in this module include an exact brute-force scan, a
// VP-tree accelerated variant, and an adapter over native usearch indexes.
package index
