package model

import "gonum.org/v1/gonum/mat"

// Predictor is the read side of a fitted model: anything that can map a
// feature matrix to a column vector of predictions. The evaluator and the
// diagnostics only need this surface.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is a fittable Predictor.
type Regressor interface {
	Predictor
	Fit(X, y mat.Matrix) error
}

// Transformer is a fittable feature transform, e.g. a scaler.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
