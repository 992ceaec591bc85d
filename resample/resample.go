package resample

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Apply rebalances (X, y) under the given policy. The result is a fresh
// matrix/vector pair; the inputs are never modified. The same seed always
// yields the same output, which keeps cross-validated scores reproducible.
func Apply(X mat.Matrix, y []float64, policy Policy, seed uint64) (*mat.Dense, []float64, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "resample.Apply")
	}
	if len(y) != r {
		return nil, nil, errors.NewDimensionError("resample.Apply", r, len(y), 0)
	}

	if policy == Original {
		out := mat.NewDense(r, c, nil)
		out.Copy(X)
		return out, append([]float64(nil), y...), nil
	}

	pos, neg, err := classIndices(y)
	if err != nil {
		return nil, nil, err
	}
	if len(pos) == 0 || len(neg) == 0 {
		return nil, nil, errors.NewValueError("resample.Apply", "both classes must be present to rebalance")
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	switch policy {
	case Oversample:
		return oversample(X, y, pos, neg, rng)
	case Undersample:
		return undersample(X, y, pos, neg, rng)
	case ROSE:
		return rose(X, y, pos, neg, rng)
	case SMOTE:
		return smote(X, y, pos, neg, rng)
	default:
		return nil, nil, errors.NewValueError("resample.Apply", "unknown policy "+policy.String())
	}
}

func classIndices(y []float64) (pos, neg []int, err error) {
	for i, v := range y {
		switch v {
		case 1:
			pos = append(pos, i)
		case 0:
			neg = append(neg, i)
		default:
			return nil, nil, errors.NewValueError("resample", "labels must be 0 or 1")
		}
	}
	return pos, neg, nil
}

func minorityMajority(pos, neg []int) (minority, majority []int) {
	if len(pos) <= len(neg) {
		return pos, neg
	}
	return neg, pos
}

// oversample keeps every row and draws minority rows with replacement until
// both classes have the majority count.
func oversample(X mat.Matrix, y []float64, pos, neg []int, rng *rand.Rand) (*mat.Dense, []float64, error) {
	minority, majority := minorityMajority(pos, neg)

	keep := make([]int, 0, 2*len(majority))
	keep = append(keep, majority...)
	keep = append(keep, minority...)
	for len(keep) < 2*len(majority) {
		keep = append(keep, minority[rng.IntN(len(minority))])
	}
	return takeRows(X, y, keep), takeLabels(y, keep), nil
}

// undersample keeps every minority row and a without-replacement draw of the
// majority of the same size.
func undersample(X mat.Matrix, y []float64, pos, neg []int, rng *rand.Rand) (*mat.Dense, []float64, error) {
	minority, majority := minorityMajority(pos, neg)

	shuffled := append([]int(nil), majority...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	keep := make([]int, 0, 2*len(minority))
	keep = append(keep, minority...)
	keep = append(keep, shuffled[:len(minority)]...)
	return takeRows(X, y, keep), takeLabels(y, keep), nil
}

// rose builds a fully synthetic balanced set of the original size: each new
// row is a kernel-smoothed copy of a randomly drawn row of a randomly drawn
// class, with per-feature gaussian bandwidth shrinking in the class size.
func rose(X mat.Matrix, y []float64, pos, neg []int, rng *rand.Rand) (*mat.Dense, []float64, error) {
	r, c := X.Dims()

	hPos := bandwidths(X, pos)
	hNeg := bandwidths(X, neg)

	out := mat.NewDense(r, c, nil)
	labels := make([]float64, r)
	for i := 0; i < r; i++ {
		idxs, h, label := neg, hNeg, 0.0
		if rng.Float64() < 0.5 {
			idxs, h, label = pos, hPos, 1.0
		}
		src := idxs[rng.IntN(len(idxs))]
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(src, j)+rng.NormFloat64()*h[j])
		}
		labels[i] = label
	}
	return out, labels, nil
}

func bandwidths(X mat.Matrix, idxs []int) []float64 {
	_, c := X.Dims()
	n := float64(len(idxs))
	h := make([]float64, c)
	shrink := math.Pow(n, -0.2)
	for j := 0; j < c; j++ {
		var sum float64
		for _, i := range idxs {
			sum += X.At(i, j)
		}
		mean := sum / n
		var ss float64
		for _, i := range idxs {
			d := X.At(i, j) - mean
			ss += d * d
		}
		h[j] = 0.9 * math.Sqrt(ss/n) * shrink
	}
	return h
}

const smoteNeighbors = 5

// smote keeps every row and adds interpolated synthetic minority rows until
// the classes balance. Each synthetic row lies on the segment between a
// minority row and one of its k nearest minority neighbors.
func smote(X mat.Matrix, y []float64, pos, neg []int, rng *rand.Rand) (*mat.Dense, []float64, error) {
	minority, majority := minorityMajority(pos, neg)
	if len(minority) < 2 {
		return nil, nil, errors.NewValueError("resample.smote", "need at least two minority samples")
	}

	r, c := X.Dims()
	need := len(majority) - len(minority)

	neighbors := minorityNeighbors(X, minority)

	out := mat.NewDense(r+need, c, nil)
	labels := make([]float64, r+need)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j))
		}
		labels[i] = y[i]
	}

	minorityLabel := y[minority[0]]
	for s := 0; s < need; s++ {
		a := rng.IntN(len(minority))
		nbrs := neighbors[a]
		b := nbrs[rng.IntN(len(nbrs))]
		gap := rng.Float64()

		src, dst := minority[a], minority[b]
		row := r + s
		for j := 0; j < c; j++ {
			v := X.At(src, j)
			out.Set(row, j, v+gap*(X.At(dst, j)-v))
		}
		labels[row] = minorityLabel
	}
	return out, labels, nil
}

// minorityNeighbors returns, for each minority row, the positions (within
// the minority slice) of its k nearest minority neighbors by euclidean
// distance.
func minorityNeighbors(X mat.Matrix, minority []int) [][]int {
	_, c := X.Dims()
	n := len(minority)
	k := smoteNeighbors
	if k > n-1 {
		k = n - 1
	}

	out := make([][]int, n)
	for a := 0; a < n; a++ {
		type cand struct {
			pos  int
			dist float64
		}
		cands := make([]cand, 0, n-1)
		for b := 0; b < n; b++ {
			if b == a {
				continue
			}
			var d float64
			for j := 0; j < c; j++ {
				diff := X.At(minority[a], j) - X.At(minority[b], j)
				d += diff * diff
			}
			cands = append(cands, cand{pos: b, dist: d})
		}
		// Partial selection sort: only the k closest matter.
		for i := 0; i < k; i++ {
			best := i
			for j := i + 1; j < len(cands); j++ {
				if cands[j].dist < cands[best].dist {
					best = j
				}
			}
			cands[i], cands[best] = cands[best], cands[i]
		}
		nbrs := make([]int, k)
		for i := 0; i < k; i++ {
			nbrs[i] = cands[i].pos
		}
		out[a] = nbrs
	}
	return out
}

func takeRows(X mat.Matrix, y []float64, idxs []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idxs), c, nil)
	for i, src := range idxs {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(src, j))
		}
	}
	return out
}

func takeLabels(y []float64, idxs []int) []float64 {
	out := make([]float64, len(idxs))
	for i, src := range idxs {
		out[i] = y[src]
	}
	return out
}
