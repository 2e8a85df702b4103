// Package featmat holds named feature matrices and joins
// them along the feature axis.
package featmat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when matrices that must
// share a row count do not.
var ErrShapeMismatch = errors.New("shape mismatch")

// Concatenate joins matrices column-wise, in argument order.
// Every matrix must have the same number of rows. The
// inputs are left untouched.
func Concatenate(ms ...mat.Matrix) (*mat.Dense, error) {
	if len(ms) == 0 {
		return nil, errors.New("concatenate: no matrices")
	}
	rows, _ := ms[0].Dims()
	for i, m := range ms[1:] {
		r, c := m.Dims()
		if r != rows {
			return nil, fmt.Errorf("concatenate: matrix %d is %dx%d, want %d rows: %w",
				i+1, r, c, rows, ErrShapeMismatch)
		}
	}

	res := mat.DenseCopyOf(ms[0])
	for _, m := range ms[1:] {
		var joined mat.Dense
		joined.Augment(res, m)
		res = &joined
	}
	return res, nil
}
