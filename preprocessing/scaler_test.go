package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(r)
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(r))

		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		if math.Abs(std-1) > 1e-10 {
			t.Errorf("column %d std = %v, want 1", j, std)
		}
	}
}

func TestStandardScalerUsesTrainStatisticsOnly(t *testing.T) {
	train := mat.NewDense(3, 1, []float64{0, 1, 2}) // mean 1, std sqrt(2/3)
	test := mat.NewDense(2, 1, []float64{1, 3})

	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(train); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	scaled, err := scaler.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	std := math.Sqrt(2.0 / 3.0)
	want := []float64{(1.0 - 1.0) / std, (3.0 - 1.0) / std}
	for i, w := range want {
		if math.Abs(scaled.At(i, 0)-w) > 1e-12 {
			t.Errorf("scaled[%d] = %v, want %v", i, scaled.At(i, 0), w)
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if scaled.At(i, 0) != 0 {
			t.Errorf("constant feature should center to 0, got %v", scaled.At(i, 0))
		}
	}
}

func TestStandardScalerInverseRoundTrip(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 7, 4, 9, 6, 13})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(back.At(i, j)-X.At(i, j)) > 1e-10 {
				t.Errorf("round trip [%d,%d] = %v, want %v", i, j, back.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform() before Fit() should fail")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(3, 3, nil)); err == nil {
		t.Error("Transform() with wrong feature count should fail")
	}
}
