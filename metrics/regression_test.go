package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25, // ((0.5)^2 + (0.5)^2 + (-0.5)^2 + (-0.5)^2) / 4
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:   mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSEProperties(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{3, 7, 11})

	// Zero exactly when predictions match actuals.
	exact, err := RMSE(yTrue, mat.NewVecDense(3, []float64{3, 7, 11}))
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if exact != 0 {
		t.Errorf("RMSE of exact predictions = %v, want 0", exact)
	}

	// Strictly positive for any mismatch.
	off, err := RMSE(yTrue, mat.NewVecDense(3, []float64{3, 7, 11.001}))
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if off <= 0 {
		t.Errorf("RMSE with a mismatch = %v, want > 0", off)
	}

	// sqrt of MSE.
	yPred := mat.NewVecDense(3, []float64{4, 5, 14})
	rmse, _ := RMSE(yTrue, yPred)
	mse, _ := MSE(yTrue, yPred)
	if math.Abs(rmse-math.Sqrt(mse)) > 1e-12 {
		t.Errorf("RMSE = %v, want sqrt(MSE) = %v", rmse, math.Sqrt(mse))
	}
}

func TestRMSEMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{1, 2, 5})

	got, err := RMSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSEMatrix() error = %v", err)
	}
	want := math.Sqrt(4.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RMSEMatrix() = %v, want %v", got, want)
	}

	if _, err := RMSEMatrix(yTrue, mat.NewDense(3, 2, nil)); err == nil {
		t.Error("RMSEMatrix() should reject non-column predictions")
	}
	if _, err := RMSEMatrix(yTrue, mat.NewDense(2, 1, nil)); err == nil {
		t.Error("RMSEMatrix() should reject row-count mismatch")
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 1, 4})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("MAE() = %v, want 0.75", got)
	}
}

func TestR2Score(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	perfect, err := R2Score(yTrue, mat.NewVecDense(4, []float64{1, 2, 3, 4}))
	if err != nil {
		t.Fatalf("R2Score() error = %v", err)
	}
	if math.Abs(perfect-1) > 1e-12 {
		t.Errorf("R2 of perfect fit = %v, want 1", perfect)
	}

	// Predicting the mean scores zero.
	meanOnly, err := R2Score(yTrue, mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}))
	if err != nil {
		t.Fatalf("R2Score() error = %v", err)
	}
	if math.Abs(meanOnly) > 1e-12 {
		t.Errorf("R2 of mean predictor = %v, want 0", meanOnly)
	}

	// No variance in yTrue is an error.
	flat := mat.NewVecDense(3, []float64{2, 2, 2})
	if _, err := R2Score(flat, mat.NewVecDense(3, []float64{2, 2, 2})); err == nil {
		t.Error("R2Score() with constant yTrue should fail")
	}
}
