package estimator

import (
	"encoding/gob"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/parallel"
	"github.com/grailbox/lifeboat/pkg/errors"
)

func init() {
	Register("knn", func() Estimator { return NewKNN(5) })
	gob.Register(&KNN{})
}

// KNN is a k-nearest-neighbors classifier with euclidean distance and
// uniform neighbor voting. Fields are exported for gob serialization.
type KNN struct {
	K int

	// Training data, stored row-major.
	TrainX []float64
	TrainY []float64
	Rows   int
	Cols   int

	Fitted bool
}

// NewKNN creates a KNN classifier with the given neighbor count.
func NewKNN(k int) *KNN {
	if k < 1 {
		k = 5
	}
	return &KNN{K: k}
}

// Name returns the registered algorithm identifier.
func (m *KNN) Name() string { return "knn" }

// Fit memorizes the training data.
func (m *KNN) Fit(X mat.Matrix, y []float64) error {
	if err := validateFit("KNN.Fit", X, y); err != nil {
		return err
	}
	r, c := X.Dims()
	if m.K > r {
		return errors.NewValueError("KNN.Fit", "k exceeds number of training samples")
	}

	m.Rows, m.Cols = r, c
	m.TrainX = make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.TrainX[i*c+j] = X.At(i, j)
		}
	}
	m.TrainY = append([]float64(nil), y...)
	m.Fitted = true
	return nil
}

// PredictProba returns, for each query row, the fraction of its k nearest
// training rows labelled positive. Distance scans run in parallel for large
// query sets.
func (m *KNN) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if !m.Fitted {
		return nil, errors.NewNotFittedError("KNN", "PredictProba")
	}
	r, c := X.Dims()
	if c != m.Cols {
		return nil, errors.NewDimensionError("KNN.PredictProba", m.Cols, c, 1)
	}

	proba := mat.NewVecDense(r, nil)
	const parallelThreshold = 64

	parallel.ForThreshold(r, parallelThreshold, func(start, end int) {
		dists := make([]float64, m.Rows)
		order := make([]int, m.Rows)
		for q := start; q < end; q++ {
			for i := 0; i < m.Rows; i++ {
				var d float64
				for j := 0; j < m.Cols; j++ {
					diff := X.At(q, j) - m.TrainX[i*m.Cols+j]
					d += diff * diff
				}
				dists[i] = d
				order[i] = i
			}
			sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })

			var votes float64
			for i := 0; i < m.K; i++ {
				votes += m.TrainY[order[i]]
			}
			proba.SetVec(q, votes/float64(m.K))
		}
	})
	return proba, nil
}

// Clone returns an unfitted copy with the same k.
func (m *KNN) Clone() Estimator {
	return NewKNN(m.K)
}

// Params returns the current hyperparameters.
func (m *KNN) Params() map[string]float64 {
	return map[string]float64{"k": float64(m.K)}
}

// SetParams overrides hyperparameters.
func (m *KNN) SetParams(params map[string]float64) error {
	if v, ok := params["k"]; ok {
		if v < 1 {
			return errors.NewValueError("KNN.SetParams", "k must be positive")
		}
		m.K = int(v)
	}
	return nil
}

// Grid returns odd neighbor counts 5, 7, 9, ... (odd k avoids vote ties).
func (m *KNN) Grid(width int) []map[string]float64 {
	if width < 1 {
		width = 1
	}
	grid := make([]map[string]float64, width)
	for i := 0; i < width; i++ {
		grid[i] = map[string]float64{"k": float64(5 + 2*i)}
	}
	return grid
}
