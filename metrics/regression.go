// Package metrics implements the regression error measures used to compare
// the fitted models on held-out data.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/pkg/errors"
)

// MSE computes the mean squared error between actual and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE computes the root mean squared error. It is non-negative and zero
// exactly when every prediction matches its actual value.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// RMSEMatrix computes RMSE when the predictions arrive as an n×1 matrix,
// which is what Predict returns.
func RMSEMatrix(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	r, c := yPred.Dims()
	if c != 1 {
		return 0, errors.NewValueError("RMSEMatrix", "predictions must be a column vector (n×1 matrix)")
	}
	if r != yTrue.Len() {
		return 0, errors.NewDimensionError("RMSEMatrix", yTrue.Len(), r, 0)
	}

	predVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		predVec.SetVec(i, yPred.At(i, 0))
	}

	return RMSE(yTrue, predVec)
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}
