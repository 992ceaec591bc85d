package validation

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/grailbox/lifeboat/estimator"
	"github.com/grailbox/lifeboat/metrics"
	"github.com/grailbox/lifeboat/parallel"
	"github.com/grailbox/lifeboat/pkg/errors"
	"github.com/grailbox/lifeboat/resample"
)

// Control configures cross validation for every model variant of a run.
type Control struct {
	// Folds is the k in k-fold cross validation.
	Folds int

	// Repeats is how many times the k-fold split is repeated with fresh
	// shuffles.
	Repeats int

	// Parallel evaluates the folds of one candidate concurrently. This is
	// internal to the adapter; the orchestration loop above stays
	// sequential either way.
	Parallel bool

	// Metric names the scoring metric. Only "roc_auc" is supported.
	Metric string

	// Seed fixes all random draws (fold shuffling, resampling), keeping
	// score comparisons across variants reproducible.
	Seed uint64
}

// Result is one trained, cross-validated model variant.
type Result struct {
	// Estimator is the final model, fitted on the full (resampled)
	// training data with the winning hyperparameters.
	Estimator estimator.Estimator

	// Score is the mean cross-validated metric of the winning candidate.
	Score float64

	// Resamples holds the per-fold scores behind Score, for comparative
	// diagnostics.
	Resamples []float64

	// Params are the winning hyperparameters.
	Params map[string]float64
}

// Trainer turns an (algorithm, policy) pair into a trained, scored model.
// The concrete CVTrainer grid-searches hyperparameters under repeated
// stratified cross validation; tests substitute fakes.
type Trainer interface {
	Train(algorithm string, policy resample.Policy, X mat.Matrix, y []float64, searchWidth int, ctrl Control) (*Result, error)
}

// CVTrainer is the production Trainer.
type CVTrainer struct{}

// NewCVTrainer creates the cross-validating trainer.
func NewCVTrainer() *CVTrainer {
	return &CVTrainer{}
}

// Train grid-searches the algorithm's hyperparameter candidates, scoring
// each by repeated stratified k-fold ROC AUC with the resampling policy
// applied to training folds only, then fits the best candidate on the full
// (resampled) data.
func (tr *CVTrainer) Train(algorithm string, policy resample.Policy, X mat.Matrix, y []float64, searchWidth int, ctrl Control) (*Result, error) {
	if ctrl.Metric != "" && ctrl.Metric != "roc_auc" {
		return nil, errors.NewValueError("CVTrainer.Train", "unsupported metric "+ctrl.Metric)
	}
	if ctrl.Folds < 2 {
		ctrl.Folds = 10
	}
	if ctrl.Repeats < 1 {
		ctrl.Repeats = 1
	}
	if searchWidth < 1 {
		searchWidth = 1
	}

	base, err := estimator.New(algorithm)
	if err != nil {
		return nil, errors.NewTrainingError(algorithm, policy.Tag(), err)
	}

	folds := tr.repeatedFolds(y, ctrl)
	grid := base.Grid(searchWidth)

	bestIdx := -1
	bestScore := 0.0
	var bestResamples []float64

	for gi, params := range grid {
		scores, err := tr.scoreCandidate(base, params, policy, X, y, folds, ctrl)
		if err != nil {
			return nil, errors.NewTrainingError(algorithm, policy.Tag(), err)
		}
		mean := stat.Mean(scores, nil)
		// Ties keep the earlier grid entry.
		if bestIdx < 0 || mean > bestScore {
			bestIdx = gi
			bestScore = mean
			bestResamples = scores
		}
	}

	final := base.Clone()
	if err := final.SetParams(grid[bestIdx]); err != nil {
		return nil, errors.NewTrainingError(algorithm, policy.Tag(), err)
	}
	Xfit, yfit, err := resample.Apply(X, y, policy, ctrl.Seed)
	if err != nil {
		return nil, errors.NewTrainingError(algorithm, policy.Tag(), err)
	}
	if err := final.Fit(Xfit, yfit); err != nil {
		return nil, errors.NewTrainingError(algorithm, policy.Tag(), err)
	}

	return &Result{
		Estimator: final,
		Score:     bestScore,
		Resamples: bestResamples,
		Params:    grid[bestIdx],
	}, nil
}

// repeatedFolds builds ctrl.Repeats independent stratified k-fold splits.
func (tr *CVTrainer) repeatedFolds(y []float64, ctrl Control) []Fold {
	folds := make([]Fold, 0, ctrl.Folds*ctrl.Repeats)
	for rep := 0; rep < ctrl.Repeats; rep++ {
		skf := NewStratifiedKFold(ctrl.Folds, true, ctrl.Seed+uint64(rep))
		folds = append(folds, skf.Split(y)...)
	}
	return folds
}

// scoreCandidate evaluates one hyperparameter candidate across all folds.
// The policy resamples each training fold; validation rows stay untouched.
func (tr *CVTrainer) scoreCandidate(base estimator.Estimator, params map[string]float64, policy resample.Policy, X mat.Matrix, y []float64, folds []Fold, ctrl Control) ([]float64, error) {
	scores := make([]float64, len(folds))
	errs := make([]error, len(folds))

	evalFold := func(fi int) {
		fold := folds[fi]
		trainX, trainY := subset(X, y, fold.TrainIndices)
		testX, testY := subset(X, y, fold.TestIndices)

		fitX, fitY, err := resample.Apply(trainX, trainY, policy, ctrl.Seed+uint64(fi))
		if err != nil {
			errs[fi] = err
			return
		}

		est := base.Clone()
		if err := est.SetParams(params); err != nil {
			errs[fi] = err
			return
		}
		if err := est.Fit(fitX, fitY); err != nil {
			errs[fi] = err
			return
		}

		proba, err := est.PredictProba(testX)
		if err != nil {
			errs[fi] = err
			return
		}
		yVec := mat.NewVecDense(len(fold.TestIndices), testY)
		scores[fi], err = metrics.ROCAUC(yVec, proba)
		if err != nil {
			errs[fi] = err
		}
	}

	if ctrl.Parallel {
		parallel.For(len(folds), func(start, end int) {
			for fi := start; fi < end; fi++ {
				evalFold(fi)
			}
		})
	} else {
		for fi := range folds {
			evalFold(fi)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}

func subset(X mat.Matrix, y []float64, indices []int) (*mat.Dense, []float64) {
	_, cols := X.Dims()
	outX := mat.NewDense(len(indices), cols, nil)
	outY := make([]float64, len(indices))
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			outX.Set(i, j, X.At(idx, j))
		}
		outY[i] = y[idx]
	}
	return outX, outY
}
