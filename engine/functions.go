package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"

	sqlite "modernc.org/sqlite"
)

// RegisterVectorFunctions registers vec_l2 and vec_l2sq with the driver so
// they are available on new connections opened after this call. The
// functions take two embedding BLOBs and return the Euclidean distance and
// squared Euclidean distance respectively, which makes index and result
// containers inspectable with plain SQL.
// Note: existing open connections will not see new functions.
func RegisterVectorFunctions(_ *sql.DB) error {
	// Idempotent registration; driver rejects duplicates but we ignore errors silently here.
	_ = sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, vecL2Impl)
	_ = sqlite.RegisterDeterministicScalarFunction("vec_l2sq", 2, vecL2sqImpl)
	return nil
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	d, err := l2sqArgs("vec_l2", args)
	if err != nil || d == nil {
		return nil, err
	}
	return math.Sqrt(*d), nil
}

func vecL2sqImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	d, err := l2sqArgs("vec_l2sq", args)
	if err != nil || d == nil {
		return nil, err
	}
	return *d, nil
}

func l2sqArgs(name string, args []driver.Value) (*float64, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	d, err := l2sq(a, b)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Local minimal helpers to avoid import cycles with the matrix package.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	n := len(b) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func l2sq(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec: L2 dim mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum, nil
}
