// Package flat implements an exact brute-force squared-L2 index and the
// .fvi binary file format it is persisted in.
package flat
