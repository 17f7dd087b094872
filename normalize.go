package hrrembed

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize replaces every all-zero row of m with its word's base vector and
// scales every other row to unit length, in place.
func Normalize(m *mat.Dense, v *Vocabulary) error {
	rows, cols := m.Dims()
	if rows != v.Len() || cols != v.Dim() {
		return fmt.Errorf("matrix is %d×%d, vocabulary is %d×%d", rows, cols, v.Len(), v.Dim())
	}
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		if allZero(row) {
			base := v.Base(v.Word(i))
			if floats.Norm(base, 2) == 0 {
				return fmt.Errorf("%w: base vector of %q", ErrDegenerate, v.Word(i))
			}
			// base vectors are unit length already; copying keeps them bit-exact
			copy(row, base)
			continue
		}
		norm := floats.Norm(row, 2)
		if norm == 0 {
			return fmt.Errorf("%w: row %d (%q)", ErrDegenerate, i, v.Word(i))
		}
		floats.Scale(1/norm, row)
	}
	return nil
}

func allZero(row []float64) bool {
	for _, x := range row {
		if x != 0 {
			return false
		}
	}
	return true
}
