package estimator

import (
	"encoding/gob"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

func init() {
	Register("glm", func() Estimator { return NewLogistic(0.01) })
	gob.Register(&Logistic{})
}

// Logistic is an L2-regularized logistic regression fitted by batch gradient
// descent. Fields are exported for gob serialization.
type Logistic struct {
	// Lambda is the L2 penalty strength (the intercept is not penalized).
	Lambda float64

	LearnRate float64
	MaxIter   int
	Tol       float64

	Weights   []float64
	Intercept float64
	NFeatures int
	Fitted    bool
}

// NewLogistic creates a logistic regression classifier.
func NewLogistic(lambda float64) *Logistic {
	return &Logistic{
		Lambda:    lambda,
		LearnRate: 0.1,
		MaxIter:   2000,
		Tol:       1e-6,
	}
}

// Name returns the registered algorithm identifier.
func (m *Logistic) Name() string { return "glm" }

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit runs gradient descent on the regularized log loss. A run that hits
// MaxIter without meeting the tolerance still yields a usable model; a
// ConvergenceWarning is emitted.
func (m *Logistic) Fit(X mat.Matrix, y []float64) error {
	if err := validateFit("Logistic.Fit", X, y); err != nil {
		return err
	}
	r, c := X.Dims()

	m.NFeatures = c
	m.Weights = make([]float64, c)
	m.Intercept = 0

	grad := make([]float64, c)
	converged := false
	for iter := 0; iter < m.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64

		for i := 0; i < r; i++ {
			z := m.Intercept
			for j := 0; j < c; j++ {
				z += m.Weights[j] * X.At(i, j)
			}
			e := sigmoid(z) - y[i]
			gradB += e
			for j := 0; j < c; j++ {
				grad[j] += e * X.At(i, j)
			}
		}

		step := m.LearnRate / float64(r)
		var maxDelta float64
		for j := 0; j < c; j++ {
			delta := step * (grad[j] + m.Lambda*m.Weights[j])
			m.Weights[j] -= delta
			if d := math.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		deltaB := step * gradB
		m.Intercept -= deltaB
		if d := math.Abs(deltaB); d > maxDelta {
			maxDelta = d
		}

		if maxDelta < m.Tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("glm", m.MaxIter, ""))
	}

	m.Fitted = true
	return nil
}

// PredictProba returns sigmoid(w·x + b) for each row of X.
func (m *Logistic) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if !m.Fitted {
		return nil, errors.NewNotFittedError("Logistic", "PredictProba")
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("Logistic.PredictProba", m.NFeatures, c, 1)
	}

	proba := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		z := m.Intercept
		for j := 0; j < c; j++ {
			z += m.Weights[j] * X.At(i, j)
		}
		proba.SetVec(i, sigmoid(z))
	}
	return proba, nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (m *Logistic) Clone() Estimator {
	clone := NewLogistic(m.Lambda)
	clone.LearnRate = m.LearnRate
	clone.MaxIter = m.MaxIter
	clone.Tol = m.Tol
	return clone
}

// Params returns the current hyperparameters.
func (m *Logistic) Params() map[string]float64 {
	return map[string]float64{"lambda": m.Lambda}
}

// SetParams overrides hyperparameters.
func (m *Logistic) SetParams(params map[string]float64) error {
	if v, ok := params["lambda"]; ok {
		if v < 0 {
			return errors.NewValueError("Logistic.SetParams", "lambda must be non-negative")
		}
		m.Lambda = v
	}
	return nil
}

// Grid returns lambda values 0, 0.01, 0.1, 1, 10, ...
func (m *Logistic) Grid(width int) []map[string]float64 {
	if width < 1 {
		width = 1
	}
	grid := make([]map[string]float64, 0, width)
	grid = append(grid, map[string]float64{"lambda": 0})
	lam := 0.01
	for len(grid) < width {
		grid = append(grid, map[string]float64{"lambda": lam})
		lam *= 10
	}
	return grid
}

// FeatureImportance reports absolute coefficient magnitudes scaled so the
// largest value is 100. Meaningful when features are centered and scaled.
func (m *Logistic) FeatureImportance() ([]float64, error) {
	if !m.Fitted {
		return nil, errors.NewNotFittedError("Logistic", "FeatureImportance")
	}

	imp := make([]float64, m.NFeatures)
	var mx float64
	for j, w := range m.Weights {
		imp[j] = math.Abs(w)
		if imp[j] > mx {
			mx = imp[j]
		}
	}
	if mx > 0 {
		for j := range imp {
			imp[j] *= 100 / mx
		}
	}
	return imp, nil
}
