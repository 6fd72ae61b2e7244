package matrix

import (
	"encoding/binary"
	"fmt"
	"math"
)

// fvmMagic marks a raw binary matrix file (.fvm): magic, rows(uint32),
// cols(uint32), then rows*cols little-endian float32 values.
var fvmMagic = [4]byte{'F', 'V', 'M', '1'}

// MarshalBinary serializes the matrix in the .fvm encoding.
func (m *Matrix) MarshalBinary() ([]byte, error) {
	out := make([]byte, 12+4*len(m.Data))
	copy(out[0:4], fvmMagic[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(m.Rows))
	binary.LittleEndian.PutUint32(out[8:12], uint32(m.Cols))
	for i, v := range m.Data {
		binary.LittleEndian.PutUint32(out[12+i*4:], math.Float32bits(v))
	}
	return out, nil
}

// UnmarshalBinary restores a matrix from the .fvm encoding.
func (m *Matrix) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("matrix: invalid binary matrix: %d bytes", len(data))
	}
	if [4]byte(data[0:4]) != fvmMagic {
		return fmt.Errorf("matrix: invalid binary matrix: bad magic %q", data[0:4])
	}
	rows := int(binary.LittleEndian.Uint32(data[4:8]))
	cols := int(binary.LittleEndian.Uint32(data[8:12]))
	want := 12 + 4*rows*cols
	if len(data) != want {
		return fmt.Errorf("matrix: truncated binary matrix: %d bytes, want %d", len(data), want)
	}
	vals := make([]float32, rows*cols)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[12+i*4:]))
	}
	m.Rows, m.Cols, m.Data = rows, cols, vals
	return nil
}
