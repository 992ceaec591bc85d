// Package log defines standard attribute keys for pipeline log records.
//
// Using these keys consistently lets one grep a run's JSON log for a single
// model variant or training phase.
package log

// Model and operation context.
const (
	// AlgorithmKey identifies the estimator algorithm ("knn", "nb", "glm").
	AlgorithmKey = "algorithm"

	// PolicyKey identifies the resampling policy tag ("ori", "up", "down",
	// "rose", "smote").
	PolicyKey = "policy"

	// ModelIDKey is the composite identifier algorithm+"."+policy tag.
	ModelIDKey = "model.id"

	// ArtifactIDKey names a persisted model artifact.
	ArtifactIDKey = "artifact.id"

	// OperationKey specifies the pipeline operation being performed.
	// Standard values: "train", "score", "persist", "select", "cleanup"
	OperationKey = "operation"
)

// Data shape.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"
)

// Performance.
const (
	// ScoreKey is the cross-validated metric value of a model variant.
	ScoreKey = "score"

	// MetricKey names the scoring metric ("roc_auc").
	MetricKey = "metric"

	// DurationMsKey is the wall-clock duration of an operation in ms.
	DurationMsKey = "duration_ms"
)
