package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/core/model"
	"github.com/gridironlab/tdreg/pkg/errors"
)

// regularizedModel is the shared implementation behind RidgeRegression and
// LassoRegression. X is expected standardized (zero mean, unit variance per
// feature, training statistics only); the penalty is meaningless otherwise.
type regularizedModel struct {
	model.BaseEstimator

	kind PenaltyKind
	name string

	// Lambda is the penalty strength used by Fit. FitCV overwrites it with
	// the cross-validation selection.
	Lambda float64

	// Tol is the coordinate descent convergence tolerance on the largest
	// per-sweep coefficient change.
	Tol float64

	// MaxIter bounds the number of full coordinate sweeps per fit.
	MaxIter int

	weights   *mat.VecDense
	intercept float64
	nFeatures int
	cvResult  *CVResult
}

func (m *regularizedModel) validate(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, m.name+".Fit")
	}
	if ry != r {
		return errors.NewDimensionError(m.name+".Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(m.name+".Fit", "y must be a column vector")
	}
	if m.Lambda < 0 {
		return errors.NewValueError(m.name+".Fit", "lambda must be non-negative")
	}
	return nil
}

// Fit runs coordinate descent at the model's current Lambda.
func (m *regularizedModel) Fit(X, y mat.Matrix) error {
	if err := m.validate(X, y); err != nil {
		return err
	}

	r, c := X.Dims()
	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	weights, intercept, iters, converged := coordinateDescent(X, yVec, m.Lambda, m.kind, nil, m.Tol, m.MaxIter)
	if !converged {
		errors.Warn(errors.NewConvergenceWarning(m.kind.String()+" coordinate descent", iters, m.Lambda, ""))
	}

	m.nFeatures = c
	m.weights = mat.NewVecDense(c, weights)
	m.intercept = intercept
	m.SetFitted()

	return nil
}

// FitCV selects Lambda by k-fold cross-validation over a geometric grid and
// refits on the full training data at the penalty the policy picks.
func (m *regularizedModel) FitCV(X, y mat.Matrix, cfg CVConfig) error {
	if err := m.validate(X, y); err != nil {
		return err
	}

	r, _ := X.Dims()
	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	lambdas := LambdaGrid(X, yVec, cfg.NLambdas, cfg.LambdaMinRatio)
	cv, err := crossValidate(X, yVec, lambdas, m.kind, cfg, m.Tol, m.MaxIter)
	if err != nil {
		return err
	}

	m.cvResult = cv
	m.Lambda = cv.LambdaFor(cfg.Policy)

	return m.Fit(X, y)
}

// Predict maps a feature matrix (standardized like the training data) to an
// n×1 matrix of predictions.
func (m *regularizedModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError(m.name, "Predict")
	}

	r, c := X.Dims()
	if c != m.nFeatures {
		return nil, errors.NewDimensionError(m.name+".Predict", m.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := m.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * m.weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Coef returns the fitted coefficients in predictor order.
func (m *regularizedModel) Coef() []float64 {
	if m.weights == nil {
		return nil
	}
	coefs := make([]float64, m.weights.Len())
	for j := range coefs {
		coefs[j] = m.weights.AtVec(j)
	}
	return coefs
}

// Intercept returns the fitted intercept.
func (m *regularizedModel) Intercept() float64 {
	return m.intercept
}

// CVResult returns the cross-validation curve from the last FitCV, or nil
// when the model was fitted at a fixed lambda.
func (m *regularizedModel) CVResult() *CVResult {
	return m.cvResult
}

// RidgeRegression is linear regression with an L2 penalty fitted by
// coordinate descent.
type RidgeRegression struct {
	regularizedModel
}

// NewRidgeRegression creates an unfitted ridge model with glmnet-like
// defaults (tol 1e-7, 1000 sweeps).
func NewRidgeRegression() *RidgeRegression {
	return &RidgeRegression{regularizedModel{
		kind:    PenaltyL2,
		name:    "RidgeRegression",
		Tol:     1e-7,
		MaxIter: 1000,
	}}
}

// LassoRegression is linear regression with an L1 penalty fitted by
// coordinate descent with soft-thresholding.
type LassoRegression struct {
	regularizedModel
}

// NewLassoRegression creates an unfitted lasso model with glmnet-like
// defaults (tol 1e-7, 1000 sweeps).
func NewLassoRegression() *LassoRegression {
	return &LassoRegression{regularizedModel{
		kind:    PenaltyL1,
		name:    "LassoRegression",
		Tol:     1e-7,
		MaxIter: 1000,
	}}
}
