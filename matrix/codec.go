package matrix

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFloat32s encodes a slice of float32 values into a BLOB suitable for
// storage in a container dataset. The encoding is a little-endian sequence
// of IEEE 754 float32 values without a length prefix; the length is derived
// from the BLOB size on decode.
func EncodeFloat32s(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeFloat32s decodes a BLOB produced by EncodeFloat32s.
func DecodeFloat32s(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("matrix: invalid float32 blob length %d (not multiple of 4)", len(b))
	}
	n := len(b) / 4
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// EncodeInt64s encodes a slice of int64 values as little-endian 8-byte
// words, the integer counterpart of EncodeFloat32s.
func EncodeInt64s(vals []int64) []byte {
	if len(vals) == 0 {
		return nil
	}
	b := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[i*8:], uint64(v))
	}
	return b
}

// DecodeInt64s decodes a BLOB produced by EncodeInt64s.
func DecodeInt64s(b []byte) ([]int64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("matrix: invalid int64 blob length %d (not multiple of 8)", len(b))
	}
	n := len(b) / 8
	vals := make([]int64, n)
	for i := 0; i < n; i++ {
		vals[i] = int64(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return vals, nil
}
