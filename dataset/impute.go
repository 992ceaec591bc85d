package dataset

import (
	"math"
	"sort"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Impute fills missing cells in place: numeric columns get the column
// median, categorical columns get the most frequent level. Columns with no
// observed values at all are an error.
func (t *Table) Impute() error {
	for _, c := range t.cols {
		var err error
		if c.Type == Numeric {
			err = imputeMedian(c)
		} else {
			err = imputeMode(c)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func imputeMedian(c *Column) error {
	observed := make([]float64, 0, len(c.Numeric))
	for _, v := range c.Numeric {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return errors.NewValueError("Impute", "column "+c.Name+" has no observed values")
	}

	sort.Float64s(observed)
	var median float64
	n := len(observed)
	if n%2 == 1 {
		median = observed[n/2]
	} else {
		median = (observed[n/2-1] + observed[n/2]) / 2
	}

	for i, v := range c.Numeric {
		if math.IsNaN(v) {
			c.Numeric[i] = median
		}
	}
	return nil
}

func imputeMode(c *Column) error {
	counts := make(map[string]int)
	for _, v := range c.Labels {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return errors.NewValueError("Impute", "column "+c.Name+" has no observed values")
	}

	// Deterministic mode: highest count, lexicographically first on ties.
	levels := make([]string, 0, len(counts))
	for lv := range counts {
		levels = append(levels, lv)
	}
	sort.Strings(levels)
	mode := levels[0]
	for _, lv := range levels {
		if counts[lv] > counts[mode] {
			mode = lv
		}
	}

	for i, v := range c.Labels {
		if v == "" {
			c.Labels[i] = mode
		}
	}
	return nil
}
