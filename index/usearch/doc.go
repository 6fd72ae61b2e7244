// Package usearch adapts prebuilt native usearch index files to the
// module's kNN contract. It requires the usearch native library at link
// time; the pure-Go backends in index/flat and index/vptree have no such
// requirement.
package usearch
