// Package modelsel drives model selection: it trains every requested
// algorithm under all five resampling policies, scores and persists each
// variant, compares them, and returns the single best artifact while
// deleting the rest.
package modelsel

import (
	"github.com/grailbox/lifeboat/dataset"
	"github.com/grailbox/lifeboat/estimator"
	"github.com/grailbox/lifeboat/resample"
	"github.com/grailbox/lifeboat/validation"
)

// CVControl configures cross validation for all variants of a run.
type CVControl = validation.Control

// TrainingSpec is the immutable input of one selection run.
type TrainingSpec struct {
	// Formula in R-style notation, e.g. "Survived ~ Pclass + Sex + Age".
	Formula string

	// Table is the labelled training table (already imputed).
	Table *dataset.Table

	// Algorithms are estimator registry identifiers, processed in order.
	Algorithms []string

	// Preprocess directives, e.g. {"center", "scale"}.
	Preprocess []string

	// SearchWidth bounds the hyperparameter grid per algorithm.
	SearchWidth int

	// CV controls fold count, repeats, metric, seed and fold parallelism.
	CV CVControl
}

// TrainedModel is one fitted model variant together with its score and
// optional variable importance. Owned by the orchestrator until persisted.
type TrainedModel struct {
	Algorithm string
	Policy    resample.Policy
	Estimator estimator.Estimator
	Score     float64
	Resamples []float64
	Params    map[string]float64

	// Importance is per-feature variable importance, nil when the
	// algorithm does not support it or its computation failed.
	Importance []float64
}

// ID returns the composite identifier "algorithm.policyTag".
func (m *TrainedModel) ID() string {
	return CompositeID(m.Algorithm, m.Policy)
}

// CompositeID builds the composite identifier for an algorithm/policy pair.
func CompositeID(algorithm string, policy resample.Policy) string {
	return algorithm + "." + policy.Tag()
}

// ArtifactID returns the durable artifact name "algorithm.policyTag.model".
func ArtifactID(algorithm string, policy resample.Policy) string {
	return CompositeID(algorithm, policy) + ".model"
}

// ModelRegistry holds at most one trained model per (algorithm, policy)
// pair. A pair is absent when its training failed or was aborted.
type ModelRegistry struct {
	models map[string]*TrainedModel
}

// NewModelRegistry creates an empty registry.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]*TrainedModel)}
}

// Put stores a trained model under its composite identifier.
func (r *ModelRegistry) Put(m *TrainedModel) {
	r.models[m.ID()] = m
}

// Get returns the model for the pair, or nil.
func (r *ModelRegistry) Get(algorithm string, policy resample.Policy) *TrainedModel {
	return r.models[CompositeID(algorithm, policy)]
}

// ByAlgorithm returns the algorithm's surviving variants in policy order.
func (r *ModelRegistry) ByAlgorithm(algorithm string) []*TrainedModel {
	var out []*TrainedModel
	for _, policy := range resample.Policies() {
		if m := r.Get(algorithm, policy); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of stored models.
func (r *ModelRegistry) Len() int {
	return len(r.models)
}
