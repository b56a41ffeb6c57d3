// Package diagnostics computes the advisory model checks of the analysis:
// variance inflation factors for multicollinearity and residual-vs-fitted
// structure for heteroscedasticity. Nothing here fails a run; the outputs
// are for a human to read.
package diagnostics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/core/model"
	"github.com/gridironlab/tdreg/linear"
	"github.com/gridironlab/tdreg/pkg/errors"
)

// VIFResult is the variance inflation factor of one predictor.
type VIFResult struct {
	Predictor string
	R2        float64 // R² of regressing this predictor on all others
	VIF       float64 // 1 / (1 − R²); +Inf under perfect collinearity
}

// VIF computes the variance inflation factor for every predictor: column j
// is regressed on all other columns and VIF_j = 1/(1 − R²_j). names must
// align with X's columns.
func VIF(X mat.Matrix, names []string) ([]VIFResult, error) {
	n, p := X.Dims()
	if p < 2 {
		return nil, errors.NewValueError("VIF", "need at least 2 predictors")
	}
	if len(names) != p {
		return nil, errors.NewDimensionError("VIF", p, len(names), 1)
	}
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "VIF")
	}

	results := make([]VIFResult, p)
	for j := 0; j < p; j++ {
		others := mat.NewDense(n, p-1, nil)
		target := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			col := 0
			for k := 0; k < p; k++ {
				if k == j {
					target.Set(i, 0, X.At(i, k))
					continue
				}
				others.Set(i, col, X.At(i, k))
				col++
			}
		}

		aux := linear.NewOLSRegression()
		if err := aux.Fit(others, target); err != nil {
			return nil, errors.Wrapf(err, "VIF: auxiliary regression for %s", names[j])
		}

		r2 := aux.R2()
		vif := math.Inf(1)
		if r2 < 1 {
			vif = 1 / (1 - r2)
		}

		results[j] = VIFResult{Predictor: names[j], R2: r2, VIF: vif}
	}

	return results, nil
}

// WarnAboveThreshold emits a CollinearityWarning for every predictor whose
// VIF exceeds the threshold. Reference thresholds are 5–10.
func WarnAboveThreshold(results []VIFResult, threshold float64) {
	for _, r := range results {
		if r.VIF > threshold {
			errors.Warn(errors.NewCollinearityWarning(r.Predictor, r.VIF, threshold))
		}
	}
}

// ResidualPoint is one (fitted value, residual) pair.
type ResidualPoint struct {
	Fitted   float64
	Residual float64
}

// ResidualsVsFitted evaluates a fitted model on (X, y) and returns the
// residual-vs-fitted pairs used to eyeball heteroscedasticity.
func ResidualsVsFitted(m model.Predictor, X mat.Matrix, y *mat.VecDense) ([]ResidualPoint, error) {
	preds, err := m.Predict(X)
	if err != nil {
		return nil, err
	}

	n, _ := preds.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("ResidualsVsFitted", n, y.Len(), 0)
	}

	points := make([]ResidualPoint, n)
	for i := 0; i < n; i++ {
		fitted := preds.At(i, 0)
		points[i] = ResidualPoint{Fitted: fitted, Residual: y.AtVec(i) - fitted}
	}
	return points, nil
}

// BinStat is the residual variance within one fitted-value bin. A roughly
// constant variance across bins is the homoscedastic picture; a trend is
// the numeric counterpart of a funnel-shaped residual plot.
type BinStat struct {
	Lo       float64
	Hi       float64
	Count    int
	Variance float64 // NaN for empty bins
}

// BinnedResidualVariance splits the fitted-value range into equal-width bins
// and computes the residual variance inside each.
func BinnedResidualVariance(points []ResidualPoint, bins int) ([]BinStat, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "BinnedResidualVariance")
	}
	if bins < 1 {
		return nil, errors.NewValueError("BinnedResidualVariance", "need at least 1 bin")
	}

	sorted := append([]ResidualPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Fitted < sorted[j].Fitted })

	lo := sorted[0].Fitted
	hi := sorted[len(sorted)-1].Fitted
	width := (hi - lo) / float64(bins)
	if width == 0 {
		// All fitted values identical: one bin holds everything.
		return []BinStat{binStat(lo, hi, residualsOf(sorted))}, nil
	}

	stats := make([]BinStat, bins)
	for b := 0; b < bins; b++ {
		binLo := lo + float64(b)*width
		binHi := binLo + width

		var residuals []float64
		for _, pt := range sorted {
			if pt.Fitted >= binLo && (pt.Fitted < binHi || (b == bins-1 && pt.Fitted <= binHi)) {
				residuals = append(residuals, pt.Residual)
			}
		}
		stats[b] = binStat(binLo, binHi, residuals)
	}

	return stats, nil
}

func residualsOf(points []ResidualPoint) []float64 {
	out := make([]float64, len(points))
	for i, pt := range points {
		out[i] = pt.Residual
	}
	return out
}

func binStat(lo, hi float64, residuals []float64) BinStat {
	stat := BinStat{Lo: lo, Hi: hi, Count: len(residuals), Variance: math.NaN()}
	if len(residuals) == 0 {
		return stat
	}

	var mean float64
	for _, r := range residuals {
		mean += r
	}
	mean /= float64(len(residuals))

	var variance float64
	for _, r := range residuals {
		variance += (r - mean) * (r - mean)
	}
	stat.Variance = variance / float64(len(residuals))
	return stat
}
