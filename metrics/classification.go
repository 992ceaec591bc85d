// Package metrics implements binary classification metrics used to score
// and compare trained model variants.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// ROCAUC computes the area under the ROC curve from true 0/1 labels and
// predicted positive-class scores, using the rank-sum formulation with
// average ranks for tied scores.
//
// When yTrue contains a single class the metric is undefined; an
// UndefinedMetricWarning is emitted and 0.5 is returned.
func ROCAUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("ROCAUC", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("ROCAUC", n, yScore.Len(), 0)
	}

	var nPos, nNeg int
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("ROCAUC", "labels must be 0 or 1")
		}
	}

	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("roc_auc", "only one class present", 0.5))
		return 0.5, nil
	}

	// Rank scores ascending, averaging ranks across ties.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(idx[j+1]) == yScore.AtVec(idx[i]) {
			j++
		}
		// Ranks are 1-based; tied block [i, j] shares the average rank.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	var rankSum float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSum += ranks[i]
		}
	}

	p := float64(nPos)
	auc := (rankSum - p*(p+1)/2) / (p * float64(nNeg))
	return auc, nil
}

// Accuracy computes the fraction of exact label matches.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Sensitivity computes the true positive rate (recall of class 1). When no
// positives exist the metric is undefined; a warning is emitted and 0 is
// returned.
func Sensitivity(yTrue, yPred *mat.VecDense) (float64, error) {
	return rate(yTrue, yPred, 1, "sensitivity")
}

// Specificity computes the true negative rate (recall of class 0). When no
// negatives exist the metric is undefined; a warning is emitted and 0 is
// returned.
func Specificity(yTrue, yPred *mat.VecDense) (float64, error) {
	return rate(yTrue, yPred, 0, "specificity")
}

func rate(yTrue, yPred *mat.VecDense, class float64, name string) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(name, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(name, n, yPred.Len(), 0)
	}

	var total, hit int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != class {
			continue
		}
		total++
		if yPred.AtVec(i) == class {
			hit++
		}
	}
	if total == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(name, "no samples of the reference class", 0))
		return 0, nil
	}
	return float64(hit) / float64(total), nil
}

// Threshold converts positive-class probabilities into 0/1 labels at the
// given cutoff.
func Threshold(scores *mat.VecDense, cutoff float64) *mat.VecDense {
	n := scores.Len()
	labels := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) > cutoff {
			labels.SetVec(i, 1)
		}
	}
	return labels
}
