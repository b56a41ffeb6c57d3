// Package model holds the estimator plumbing shared by every fitted model
// in the analysis.
package model

// EstimatorState tracks whether an estimator has been fitted.
type EstimatorState int

const (
	// NotFitted is the state of an estimator before Fit has run.
	NotFitted EstimatorState = iota
	// Fitted is the state of an estimator after a successful Fit.
	Fitted
)

// BaseEstimator is embedded by every model to carry its fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to its unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
