// Package resample implements the class-rebalancing policies applied at
// training time. Each policy produces an independent rebalanced view of the
// training rows; validation folds are never resampled.
package resample

import "github.com/grailbox/lifeboat/pkg/errors"

// Policy selects how class imbalance is corrected before a model fit.
type Policy int

const (
	// Original trains on the data as-is.
	Original Policy = iota
	// Oversample draws minority rows with replacement up to the majority count.
	Oversample
	// Undersample draws majority rows without replacement down to the minority count.
	Undersample
	// ROSE generates a balanced synthetic set by kernel perturbation of
	// existing rows.
	ROSE
	// SMOTE generates synthetic minority rows by interpolating between
	// nearest minority neighbors.
	SMOTE
)

// Policies returns all policies in the fixed training order.
func Policies() []Policy {
	return []Policy{Original, Oversample, Undersample, ROSE, SMOTE}
}

// Tag returns the short identifier used in composite model and artifact
// names.
func (p Policy) Tag() string {
	switch p {
	case Original:
		return "ori"
	case Oversample:
		return "up"
	case Undersample:
		return "down"
	case ROSE:
		return "rose"
	case SMOTE:
		return "smote"
	default:
		return "unknown"
	}
}

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case Original:
		return "original"
	case Oversample:
		return "oversample"
	case Undersample:
		return "undersample"
	case ROSE:
		return "rose"
	case SMOTE:
		return "smote"
	default:
		return "unknown"
	}
}

// ParsePolicy resolves a policy from its tag or name.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "ori", "original":
		return Original, nil
	case "up", "oversample":
		return Oversample, nil
	case "down", "undersample":
		return Undersample, nil
	case "rose":
		return ROSE, nil
	case "smote":
		return SMOTE, nil
	default:
		return Original, errors.NewValueError("ParsePolicy", "unknown policy "+s)
	}
}
