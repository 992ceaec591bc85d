package estimator

import (
	"encoding/gob"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

func init() {
	Register("nb", func() Estimator { return NewGaussianNB(1e-9) })
	gob.Register(&GaussianNB{})
}

// GaussianNB is a gaussian naive Bayes classifier for two classes. Fields
// are exported for gob serialization.
type GaussianNB struct {
	// Smoothing is added to every feature variance for numerical stability,
	// scaled by the largest observed feature variance.
	Smoothing float64

	// Per-class statistics, index 0 = negative class, 1 = positive class.
	Mean     [2][]float64
	Variance [2][]float64
	LogPrior [2]float64

	NFeatures int
	Fitted    bool
}

// NewGaussianNB creates a gaussian naive Bayes classifier.
func NewGaussianNB(smoothing float64) *GaussianNB {
	if smoothing <= 0 {
		smoothing = 1e-9
	}
	return &GaussianNB{Smoothing: smoothing}
}

// Name returns the registered algorithm identifier.
func (m *GaussianNB) Name() string { return "nb" }

// Fit estimates per-class feature means, variances and class priors.
func (m *GaussianNB) Fit(X mat.Matrix, y []float64) error {
	if err := validateFit("GaussianNB.Fit", X, y); err != nil {
		return err
	}
	r, c := X.Dims()

	var count [2]int
	for _, v := range y {
		count[int(v)]++
	}
	if count[0] == 0 || count[1] == 0 {
		return errors.NewValueError("GaussianNB.Fit", "both classes must be present")
	}

	m.NFeatures = c
	for k := 0; k < 2; k++ {
		m.Mean[k] = make([]float64, c)
		m.Variance[k] = make([]float64, c)
		m.LogPrior[k] = math.Log(float64(count[k]) / float64(r))
	}

	for i := 0; i < r; i++ {
		k := int(y[i])
		for j := 0; j < c; j++ {
			m.Mean[k][j] += X.At(i, j)
		}
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < c; j++ {
			m.Mean[k][j] /= float64(count[k])
		}
	}

	for i := 0; i < r; i++ {
		k := int(y[i])
		for j := 0; j < c; j++ {
			d := X.At(i, j) - m.Mean[k][j]
			m.Variance[k][j] += d * d
		}
	}

	var maxVar float64
	for k := 0; k < 2; k++ {
		for j := 0; j < c; j++ {
			m.Variance[k][j] /= float64(count[k])
			if m.Variance[k][j] > maxVar {
				maxVar = m.Variance[k][j]
			}
		}
	}
	eps := m.Smoothing * math.Max(maxVar, 1)
	for k := 0; k < 2; k++ {
		for j := 0; j < c; j++ {
			m.Variance[k][j] += eps
		}
	}

	m.Fitted = true
	return nil
}

// PredictProba returns posterior positive-class probabilities computed from
// the class-conditional gaussian log-likelihoods.
func (m *GaussianNB) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if !m.Fitted {
		return nil, errors.NewNotFittedError("GaussianNB", "PredictProba")
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("GaussianNB.PredictProba", m.NFeatures, c, 1)
	}

	proba := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		var ll [2]float64
		for k := 0; k < 2; k++ {
			ll[k] = m.LogPrior[k]
			for j := 0; j < c; j++ {
				d := X.At(i, j) - m.Mean[k][j]
				v := m.Variance[k][j]
				ll[k] -= 0.5*math.Log(2*math.Pi*v) + d*d/(2*v)
			}
		}
		// log-sum-exp for a stable posterior.
		mx := math.Max(ll[0], ll[1])
		p1 := math.Exp(ll[1] - mx)
		p0 := math.Exp(ll[0] - mx)
		proba.SetVec(i, p1/(p0+p1))
	}
	return proba, nil
}

// Clone returns an unfitted copy with the same smoothing.
func (m *GaussianNB) Clone() Estimator {
	return NewGaussianNB(m.Smoothing)
}

// Params returns the current hyperparameters.
func (m *GaussianNB) Params() map[string]float64 {
	return map[string]float64{"smoothing": m.Smoothing}
}

// SetParams overrides hyperparameters.
func (m *GaussianNB) SetParams(params map[string]float64) error {
	if v, ok := params["smoothing"]; ok {
		if v <= 0 {
			return errors.NewValueError("GaussianNB.SetParams", "smoothing must be positive")
		}
		m.Smoothing = v
	}
	return nil
}

// Grid returns smoothing values 1e-9, 1e-8, ... in decades.
func (m *GaussianNB) Grid(width int) []map[string]float64 {
	if width < 1 {
		width = 1
	}
	grid := make([]map[string]float64, width)
	s := 1e-9
	for i := 0; i < width; i++ {
		grid[i] = map[string]float64{"smoothing": s}
		s *= 10
	}
	return grid
}

// FeatureImportance reports the standardized separation between class means
// per feature, scaled so the largest value is 100.
func (m *GaussianNB) FeatureImportance() ([]float64, error) {
	if !m.Fitted {
		return nil, errors.NewNotFittedError("GaussianNB", "FeatureImportance")
	}

	imp := make([]float64, m.NFeatures)
	var mx float64
	for j := 0; j < m.NFeatures; j++ {
		pooled := math.Sqrt((m.Variance[0][j] + m.Variance[1][j]) / 2)
		imp[j] = math.Abs(m.Mean[1][j]-m.Mean[0][j]) / pooled
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
