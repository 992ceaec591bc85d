package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Design turns a table into a numeric model matrix according to a formula.
// Categorical features are dummy-coded against the levels observed at fit
// time (reference level dropped), and the optional center/scale directives
// are applied with statistics learned from the training table. A fitted
// Design can then transform the unlabelled test table consistently.
type Design struct {
	Formula    Formula
	Directives []string

	features     []string            // raw feature columns, formula order
	levels       map[string][]string // fitted levels per categorical feature
	targetLevels []string            // fitted levels for a categorical target
	encodedNames []string
	scaler       *StandardScaler
	fitted       bool
}

// NewDesign creates an unfitted design for a formula and preprocessing
// directives. Supported directives: "center", "scale".
func NewDesign(formula Formula, directives []string) *Design {
	return &Design{Formula: formula, Directives: directives}
}

// FeatureNames returns the post-encoding column names of the model matrix.
func (d *Design) FeatureNames() []string {
	return d.encodedNames
}

// FitTransform fits the design on a labelled table and returns the model
// matrix X and the 0/1 target vector y.
func (d *Design) FitTransform(t *Table) (*mat.Dense, []float64, error) {
	features, err := d.Formula.FeatureNames(t)
	if err != nil {
		return nil, nil, err
	}
	d.features = features
	d.levels = make(map[string][]string)
	d.encodedNames = nil

	for _, name := range features {
		c := t.Col(name)
		if c.Type == Numeric {
			d.encodedNames = append(d.encodedNames, name)
			continue
		}
		levels := observedLevels(c)
		if len(levels) < 2 {
			return nil, nil, errors.NewValueError("Design.FitTransform",
				"categorical feature "+name+" has fewer than two levels")
		}
		d.levels[name] = levels
		// Reference coding: first level dropped.
		for _, lv := range levels[1:] {
			d.encodedNames = append(d.encodedNames, name+"="+lv)
		}
	}

	y, err := d.fitTarget(t)
	if err != nil {
		return nil, nil, err
	}

	X := d.encode(t)

	center, scale := d.directiveFlags()
	if center || scale {
		d.scaler = NewStandardScaler(center, scale)
		if err := d.scaler.Fit(X); err != nil {
			return nil, nil, err
		}
		X, err = d.scaler.Transform(X)
		if err != nil {
			return nil, nil, err
		}
	}

	d.fitted = true
	return X, y, nil
}

// Transform encodes a table (typically the test set) with the fitted design.
// Levels unseen at fit time encode as all-zero dummies.
func (d *Design) Transform(t *Table) (*mat.Dense, error) {
	if !d.fitted {
		return nil, errors.NewNotFittedError("Design", "Transform")
	}
	for _, name := range d.features {
		if t.Col(name) == nil {
			return nil, errors.NewValueError("Design.Transform", "feature column "+name+" not in table")
		}
	}

	X := d.encode(t)
	if d.scaler != nil {
		return d.scaler.Transform(X)
	}
	return X, nil
}

func (d *Design) fitTarget(t *Table) ([]float64, error) {
	c := t.Col(d.Formula.Target)
	y := make([]float64, t.Len())

	if c.Type == Numeric {
		for i, v := range c.Numeric {
			if v != 0 && v != 1 {
				return nil, errors.NewValueError("Design.FitTransform", "numeric target must be 0/1")
			}
			y[i] = v
		}
		return y, nil
	}

	levels := observedLevels(c)
	if len(levels) != 2 {
		return nil, errors.NewValueError("Design.FitTransform", "categorical target must have exactly two levels")
	}
	d.targetLevels = levels
	for i, v := range c.Labels {
		if v == levels[1] {
			y[i] = 1
		}
	}
	return y, nil
}

func (d *Design) encode(t *Table) *mat.Dense {
	X := mat.NewDense(t.Len(), len(d.encodedNames), nil)
	j := 0
	for _, name := range d.features {
		c := t.Col(name)
		if levels, ok := d.levels[name]; ok {
			for _, lv := range levels[1:] {
				for i := 0; i < t.Len(); i++ {
					if c.Labels[i] == lv {
						X.Set(i, j, 1)
					}
				}
				j++
			}
			continue
		}
		for i := 0; i < t.Len(); i++ {
			X.Set(i, j, c.Numeric[i])
		}
		j++
	}
	return X
}

func (d *Design) directiveFlags() (center, scale bool) {
	for _, dir := range d.Directives {
		switch dir {
		case "center":
			center = true
		case "scale":
			scale = true
		}
	}
	return center, scale
}

func observedLevels(c *Column) []string {
	seen := make(map[string]bool)
	for _, v := range c.Labels {
		if v != "" {
			seen[v] = true
		}
	}
	levels := make([]string, 0, len(seen))
	for lv := range seen {
		levels = append(levels, lv)
	}
	sort.Strings(levels)
	return levels
}
