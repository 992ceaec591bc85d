// Package errors provides structured error and warning handling for the
// lifeboat pipeline. Errors carry enough context to be logged as structured
// events and are wrapped with stack traces via cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("lifeboat-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings to a zerolog-backed sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a non-fatal warning. Warnings never alter control flow; they
// exist so that best-effort steps (importance computation, diagnostic plots)
// can report problems without aborting the run.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ConvergenceWarning is raised when an iterative fit stops before meeting
// its tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UndefinedMetricWarning is raised when a metric is ill-defined for the given
// input, e.g. ROC AUC on a fold that contains a single class. The metric
// returns Result instead of failing.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ImportanceWarning is raised when variable-importance computation fails for
// a trained model. Importance is diagnostic only, so this is always a
// warning, never an error.
type ImportanceWarning struct {
	ModelID string
	Reason  string
}

func (w *ImportanceWarning) Error() string {
	return fmt.Sprintf("variable importance unavailable for %s: %s", w.ModelID, w.Reason)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ImportanceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("model_id", w.ModelID).
		Str("reason", w.Reason).
		Str("type", "ImportanceWarning")
}

// NewImportanceWarning creates a new ImportanceWarning.
func NewImportanceWarning(modelID, reason string) *ImportanceWarning {
	return &ImportanceWarning{ModelID: modelID, Reason: reason}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on an
// estimator that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("lifeboat: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input data has an unexpected shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("lifeboat: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is invalid for an operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("lifeboat: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// TrainingError reports a failed model fit for one algorithm/policy
// combination. The orchestrator aborts the remaining policy variants of that
// algorithm and continues with the next one.
type TrainingError struct {
	Algorithm string
	Policy    string
	Err       error
}

func (e *TrainingError) Error() string {
	if e.Policy != "" {
		return fmt.Sprintf("lifeboat: training %s.%s failed: %v", e.Algorithm, e.Policy, e.Err)
	}
	return fmt.Sprintf("lifeboat: training %s failed: %v", e.Algorithm, e.Err)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("algorithm", e.Algorithm).
		Str("policy", e.Policy).
		AnErr("cause", e.Err).
		Str("type", "TrainingError")
}

// NewTrainingError creates a TrainingError with a stack trace attached.
func NewTrainingError(algorithm, policy string, err error) error {
	trainErr := &TrainingError{Algorithm: algorithm, Policy: policy, Err: err}
	return errors.WithStack(trainErr)
}

// PersistenceError reports a failed artifact save, load or delete.
type PersistenceError struct {
	Op         string // "save", "load", "delete"
	ArtifactID string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("lifeboat: %s of artifact %q failed: %v", e.Op, e.ArtifactID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *PersistenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("artifact_id", e.ArtifactID).
		AnErr("cause", e.Err).
		Str("type", "PersistenceError")
}

// NewPersistenceError creates a PersistenceError with a stack trace attached.
func NewPersistenceError(op, artifactID string, err error) error {
	persErr := &PersistenceError{Op: op, ArtifactID: artifactID, Err: err}
	return errors.WithStack(persErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrNoViableModel is returned by model selection when every requested
	// algorithm failed to train, leaving the score ledger empty.
	ErrNoViableModel = New("no viable model: every algorithm failed to train")

	// ErrEmptyData is returned when an empty dataset is passed to a fit or
	// transform operation.
	ErrEmptyData = New("empty data")

	// ErrUnknownAlgorithm is returned by the estimator registry for an
	// unregistered algorithm identifier.
	ErrUnknownAlgorithm = New("unknown algorithm")

	// ErrImportanceUnsupported is returned by estimators that cannot report
	// variable importance.
	ErrImportanceUnsupported = New("variable importance not supported")
)
