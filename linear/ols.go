// Package linear implements the three model variants of the analysis:
// ordinary least squares, and ridge/lasso regression with warm-started
// coordinate descent and k-fold cross-validated penalty selection.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/core/model"
	"github.com/gridironlab/tdreg/pkg/errors"
)

// OLSRegression fits target = intercept + Σ coef_j · x_j by minimizing the
// residual sum of squares via the normal equations
// w = (XᵀX)⁻¹ Xᵀy. A rank-deficient predictor matrix fails the fit with a
// SingularMatrixError rather than silently dropping a column.
type OLSRegression struct {
	model.BaseEstimator

	weights   *mat.VecDense
	intercept float64
	nFeatures int
	nSamples  int

	stdErrors  []float64 // per-coefficient, intercept first
	r2         float64
	adjustedR2 float64
}

// NewOLSRegression creates an unfitted OLS model.
func NewOLSRegression() *OLSRegression {
	return &OLSRegression{}
}

// Fit estimates the coefficients from training data. y must be an n×1
// column vector aligned with X's rows.
func (o *OLSRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "OLSRegression.Fit")
	}
	if ry != r {
		return errors.NewDimensionError("OLSRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("OLSRegression.Fit", "y must be a column vector")
	}

	o.nFeatures = c
	o.nSamples = r

	// Prepend the intercept column: X1 = [1, X].
	X1 := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		X1.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			X1.Set(i, j+1, X.At(i, j))
		}
	}

	var XT mat.Dense
	XT.CloneFrom(X1.T())

	var XTX mat.Dense
	XTX.Mul(&XT, X1)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewSingularMatrixError("OLSRegression.Fit")
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	coefs := mat.NewVecDense(c+1, nil)
	coefs.MulVec(&XTXInv, &XTy)

	o.intercept = coefs.AtVec(0)
	o.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		o.weights.SetVec(j, coefs.AtVec(j+1))
	}

	o.computeFitStatistics(X, yVec, &XTXInv)
	o.SetFitted()

	return nil
}

// computeFitStatistics fills in standard errors, R² and adjusted R² from the
// training residuals. With no residual degrees of freedom the standard
// errors are NaN.
func (o *OLSRegression) computeFitStatistics(X mat.Matrix, y *mat.VecDense, xtxInv *mat.Dense) {
	n := o.nSamples
	p := o.nFeatures

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += y.AtVec(i)
	}
	yMean /= float64(n)

	var rss, tss float64
	for i := 0; i < n; i++ {
		pred := o.intercept
		for j := 0; j < p; j++ {
			pred += X.At(i, j) * o.weights.AtVec(j)
		}
		resid := y.AtVec(i) - pred
		rss += resid * resid
		tss += (y.AtVec(i) - yMean) * (y.AtVec(i) - yMean)
	}

	if tss > 0 {
		o.r2 = 1 - rss/tss
	} else {
		o.r2 = math.NaN()
	}

	dof := n - p - 1
	if dof > 0 && tss > 0 {
		o.adjustedR2 = 1 - (1-o.r2)*float64(n-1)/float64(dof)
	} else {
		o.adjustedR2 = math.NaN()
	}

	o.stdErrors = make([]float64, p+1)
	if dof <= 0 {
		for k := range o.stdErrors {
			o.stdErrors[k] = math.NaN()
		}
		return
	}

	sigma2 := rss / float64(dof)
	for k := 0; k <= p; k++ {
		o.stdErrors[k] = math.Sqrt(sigma2 * xtxInv.At(k, k))
	}
}

// Predict maps a feature matrix to an n×1 matrix of predictions.
func (o *OLSRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !o.IsFitted() {
		return nil, errors.NewNotFittedError("OLSRegression", "Predict")
	}

	r, c := X.Dims()
	if c != o.nFeatures {
		return nil, errors.NewDimensionError("OLSRegression.Predict", o.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := o.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * o.weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Residuals returns (fitted, actual-fitted) pairs for diagnostics.
func (o *OLSRegression) Residuals(X mat.Matrix, y *mat.VecDense) (fitted, residuals []float64, err error) {
	preds, err := o.Predict(X)
	if err != nil {
		return nil, nil, err
	}

	r, _ := preds.Dims()
	if y.Len() != r {
		return nil, nil, errors.NewDimensionError("OLSRegression.Residuals", r, y.Len(), 0)
	}

	fitted = make([]float64, r)
	residuals = make([]float64, r)
	for i := 0; i < r; i++ {
		fitted[i] = preds.At(i, 0)
		residuals[i] = y.AtVec(i) - fitted[i]
	}
	return fitted, residuals, nil
}

// Coef returns the fitted coefficients in predictor order.
func (o *OLSRegression) Coef() []float64 {
	if o.weights == nil {
		return nil
	}
	coefs := make([]float64, o.weights.Len())
	for j := range coefs {
		coefs[j] = o.weights.AtVec(j)
	}
	return coefs
}

// Intercept returns the fitted intercept.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// StdErrors returns the coefficient standard errors, intercept first.
func (o *OLSRegression) StdErrors() []float64 {
	return o.stdErrors
}

// R2 returns the training coefficient of determination.
func (o *OLSRegression) R2() float64 {
	return o.r2
}

// AdjustedR2 returns R² adjusted for the number of predictors.
func (o *OLSRegression) AdjustedR2() float64 {
	return o.adjustedR2
}
