package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// StandardScaler centers columns to mean zero and scales them to unit
// standard deviation. Which of the two transforms run is controlled by the
// preprocessing directives ("center", "scale").
type StandardScaler struct {
	Mean   []float64
	Scale  []float64
	Center bool
	Std    bool
	fitted bool
}

// NewStandardScaler creates a scaler with the given directives enabled.
func NewStandardScaler(center, std bool) *StandardScaler {
	return &StandardScaler{Center: center, Std: std}
}

// Fit computes per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		mean := sum / float64(r)
		s.Mean[j] = mean

		var ss float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(r))
		if sd == 0 {
			// Constant column: leave values untouched by scaling.
			sd = 1
		}
		s.Scale[j] = sd
	}

	s.fitted = true
	return nil
}

// Transform applies the fitted centering/scaling to X, returning a new
// matrix.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.Center {
				v -= s.Mean[j]
			}
			if s.Std {
				v /= s.Scale[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
