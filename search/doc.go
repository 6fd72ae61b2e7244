// Package search ties the pipeline together: it corrects backend squared
// L2 distances to Euclidean distances, and runs whole jobs from a loaded
// index and a set of embedded spectra files down to a persisted result
// container. Jobs can be described inline or loaded from a YAML batch
// file.
package search
