// Package validation implements repeated stratified k-fold cross validation
// and the training adapter that turns an (algorithm, resampling policy) pair
// into a fitted, scored model.
package validation

import (
	"math/rand/v2"
)

// Fold holds train/test row indices for one cross-validation split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedKFold splits rows into k folds that preserve the class mix of
// the labels.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a stratified splitter. Fewer than two splits
// falls back to five.
func NewStratifiedKFold(nSplits int, shuffle bool, seed uint64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// Split generates train/test indices for each fold from the label vector.
func (skf *StratifiedKFold) Split(y []float64) []Fold {
	nSamples := len(y)

	// Group indices by class.
	classIndices := make(map[float64][]int)
	classOrder := make([]float64, 0, 2)
	for i, label := range y {
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NSplits)

	// Distribute each class across folds.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		currentIdx := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in the fold's test set).
	for i := range folds {
		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds
}
