// Package report renders comparative evaluations of trained model variants:
// a tabular summary of cross-validated score distributions and an optional
// bar chart. Reports are diagnostic only and never influence selection.
package report

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// ModelScores pairs a composite model identifier with its per-fold
// cross-validation scores.
type ModelScores struct {
	ID        string
	Resamples []float64
}

// Row is the score distribution of one model variant.
type Row struct {
	ID   string
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	N    int
}

// Summary is a comparative evaluation across model variants, in input
// order.
type Summary struct {
	Metric string
	Rows   []Row
}

// Summarize computes score distribution statistics per model variant.
func Summarize(metric string, models []ModelScores) (Summary, error) {
	if len(models) == 0 {
		return Summary{}, errors.NewValueError("Summarize", "no models to summarize")
	}

	s := Summary{Metric: metric, Rows: make([]Row, 0, len(models))}
	for _, m := range models {
		if len(m.Resamples) == 0 {
			return Summary{}, errors.NewValueError("Summarize", "model "+m.ID+" has no resample scores")
		}
		mean, std := stat.MeanStdDev(m.Resamples, nil)
		if len(m.Resamples) == 1 {
			std = 0
		}
		min, max := m.Resamples[0], m.Resamples[0]
		for _, v := range m.Resamples[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		s.Rows = append(s.Rows, Row{ID: m.ID, Mean: mean, Std: std, Min: min, Max: max, N: len(m.Resamples)})
	}
	return s, nil
}

// String renders the summary as an aligned text table.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %8s %8s %8s %8s %4s\n", "model", "mean", "sd", "min", "max", "n")
	for _, r := range s.Rows {
		fmt.Fprintf(&b, "%-16s %8.4f %8.4f %8.4f %8.4f %4d\n", r.ID, r.Mean, r.Std, r.Min, r.Max, r.N)
	}
	return b.String()
}
