// Package errors provides the error and warning types used across the
// analysis. It is modeled after scikit-learn's warning/exception system:
// fatal conditions are structured errors with stack traces, while advisory
// conditions (non-convergence, diagnostic thresholds) flow through a global
// warning handler and never abort a run.
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
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("tdreg-warning: %v\n", w)
	}
	// zerolog sink, injected lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler overrides how advisory warnings are reported.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // swallow warnings in tests
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings to a zerolog logger.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog sink when one is installed,
// falling back to the plain handler otherwise.
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

// ConvergenceWarning is raised when coordinate descent hits its iteration
// limit before reaching the convergence tolerance. The run degrades to the
// best solution found; it does not abort.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Lambda     float64
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations (lambda=%g): %s", w.Algorithm, w.Iterations, w.Lambda, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations (lambda=%g). Consider increasing max_iter or loosening tol.", w.Algorithm, w.Iterations, w.Lambda)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Float64("lambda", w.Lambda).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, lambda float64, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Lambda: lambda, Message: message}
}

// CollinearityWarning is raised when a predictor's variance inflation factor
// exceeds the configured threshold. Advisory only.
type CollinearityWarning struct {
	Predictor string
	VIF       float64
	Threshold float64
}

func (w *CollinearityWarning) Error() string {
	return fmt.Sprintf("predictor %q has VIF %.2f above threshold %.2f; coefficient estimates may be unstable", w.Predictor, w.VIF, w.Threshold)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *CollinearityWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("predictor", w.Predictor).
		Float64("vif", w.VIF).
		Float64("threshold", w.Threshold).
		Str("type", "CollinearityWarning")
}

// NewCollinearityWarning creates a new CollinearityWarning.
func NewCollinearityWarning(predictor string, vif, threshold float64) *CollinearityWarning {
	return &CollinearityWarning{Predictor: predictor, VIF: vif, Threshold: threshold}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// DataLoadError covers everything that can go wrong before fitting starts:
// a missing or unreadable input file, a header without the expected columns,
// a cell that fails to parse, or a dataset left empty after filtering.
type DataLoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tdreg: load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("tdreg: load %s: %s", e.Source, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DataLoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("reason", e.Reason).
		Str("type", "DataLoadError")
}

// NewDataLoadError creates a new DataLoadError with a stack trace attached.
func NewDataLoadError(source, reason string, err error) error {
	loadErr := &DataLoadError{Source: source, Reason: reason, Err: err}
	return errors.WithStack(loadErr)
}

// SingularMatrixError is returned when OLS fitting encounters a
// rank-deficient predictor matrix. The fit fails rather than silently
// dropping a column.
type SingularMatrixError struct {
	Op string
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("tdreg: %s: predictor matrix is singular (perfect collinearity)", e.Op)
}

func (e *SingularMatrixError) Unwrap() error {
	return ErrSingularMatrix
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError creates a new SingularMatrixError with a stack trace.
func NewSingularMatrixError(op string) error {
	return errors.WithStack(&SingularMatrixError{Op: op})
}

// NotFittedError is returned when Predict or Transform is called on an
// estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("tdreg: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between related inputs.
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
	return fmt.Sprintf("tdreg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation,
// e.g. a train fraction outside (0, 1).
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("tdreg: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
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

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
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
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is the sentinel wrapped by SingularMatrixError.
	ErrSingularMatrix = New("singular matrix")
)
