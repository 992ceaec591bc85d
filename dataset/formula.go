package dataset

import (
	"strings"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Formula describes target and features in R-style notation:
//
//	"Survived ~ Pclass + Sex + Age + Fare"
//	"Survived ~ ."   (every other column is a feature)
type Formula struct {
	Target   string
	Features []string // empty means "." (all non-target columns)
}

// ParseFormula parses an R-style model formula.
func ParseFormula(s string) (Formula, error) {
	parts := strings.SplitN(s, "~", 2)
	if len(parts) != 2 {
		return Formula{}, errors.NewValueError("ParseFormula", "expected 'target ~ features', got "+s)
	}

	target := strings.TrimSpace(parts[0])
	if target == "" {
		return Formula{}, errors.NewValueError("ParseFormula", "empty target in "+s)
	}

	rhs := strings.TrimSpace(parts[1])
	if rhs == "." {
		return Formula{Target: target}, nil
	}

	var features []string
	for _, term := range strings.Split(rhs, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			return Formula{}, errors.NewValueError("ParseFormula", "empty feature term in "+s)
		}
		features = append(features, term)
	}
	return Formula{Target: target, Features: features}, nil
}

// FeatureNames resolves the formula's feature list against a table,
// expanding "." to every column except the target.
func (f Formula) FeatureNames(t *Table) ([]string, error) {
	if t.Col(f.Target) == nil {
		return nil, errors.NewValueError("Formula", "target column "+f.Target+" not in table")
	}
	if len(f.Features) > 0 {
		for _, name := range f.Features {
			if t.Col(name) == nil {
				return nil, errors.NewValueError("Formula", "feature column "+name+" not in table")
			}
		}
		return f.Features, nil
	}

	var names []string
	for _, name := range t.Names() {
		if name != f.Target {
			names = append(names, name)
		}
	}
	return names, nil
}
