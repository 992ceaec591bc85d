// Package estimator defines the trainable-estimator capability and its
// registry. Algorithms are looked up by string identifier ("knn", "nb",
// "glm"), so new ones can be added without touching the training adapter or
// the orchestrator.
package estimator

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Estimator is a trainable binary classifier. Fit consumes a design matrix
// and a 0/1 target; PredictProba returns positive-class probabilities.
type Estimator interface {
	// Name returns the algorithm identifier the estimator was registered
	// under.
	Name() string

	// Fit trains the estimator.
	Fit(X mat.Matrix, y []float64) error

	// PredictProba returns the positive-class probability for each row of X.
	PredictProba(X mat.Matrix) (*mat.VecDense, error)

	// Clone returns an unfitted copy carrying the same hyperparameters.
	Clone() Estimator

	// Params returns the current hyperparameters.
	Params() map[string]float64

	// SetParams overrides hyperparameters ahead of Fit.
	SetParams(params map[string]float64) error

	// Grid returns up to width hyperparameter candidates to search over.
	Grid(width int) []map[string]float64
}

// Importancer is implemented by estimators that can report per-feature
// variable importance after fitting. Implementing it is optional; the
// orchestrator treats importance as a best-effort diagnostic.
type Importancer interface {
	FeatureImportance() ([]float64, error)
}

// FeatureImportance returns e's variable importance, or
// ErrImportanceUnsupported when e does not implement Importancer.
func FeatureImportance(e Estimator) ([]float64, error) {
	imp, ok := e.(Importancer)
	if !ok {
		return nil, errors.Wrap(errors.ErrImportanceUnsupported, e.Name())
	}
	return imp.FeatureImportance()
}

// Factory creates a fresh estimator with default hyperparameters.
type Factory func() Estimator

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an algorithm available under the given identifier.
// Registering the same identifier twice panics: it is a programming error.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("estimator: duplicate registration of " + name)
	}
	registry[name] = factory
}

// New creates an estimator for the given algorithm identifier.
func New(name string) (Estimator, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrap(errors.ErrUnknownAlgorithm, name)
	}
	return factory(), nil
}

// Algorithms returns the registered identifiers in sorted order.
func Algorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateFit(op string, X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(y) != r {
		return errors.NewDimensionError(op, r, len(y), 0)
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}
