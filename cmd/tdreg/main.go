// Command tdreg runs the touchdown regression analysis end to end over a
// player-season receiving CSV: OLS with multicollinearity diagnostics,
// cross-validated ridge and lasso, and a held-out RMSE comparison.
//
// Usage:
//
//	tdreg <stats.csv> [plot-dir]
//
// When a plot directory is given the diagnostic figures are written there
// as PNG files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/gridironlab/tdreg/analysis"
	"github.com/gridironlab/tdreg/dataset"
	tdlog "github.com/gridironlab/tdreg/pkg/log"
	"github.com/gridironlab/tdreg/report"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: tdreg <stats.csv> [plot-dir]")
		os.Exit(2)
	}

	logger := tdlog.Setup("info")

	cfg := analysis.DefaultConfig(os.Args[1])
	cfg.Logger = logger

	result, err := analysis.Run(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("analysis failed")
		os.Exit(1)
	}

	logSummary(logger, result)

	if len(os.Args) == 3 {
		writePlots(logger, result, os.Args[2])
	}
}

func logSummary(logger zerolog.Logger, result *analysis.Result) {
	for _, v := range result.VIFs {
		logger.Info().
			Str("predictor", v.Predictor).
			Float64("vif", v.VIF).
			Float64("aux_r2", v.R2).
			Msg("variance inflation factor")
	}

	for _, summary := range []analysis.ModelSummary{result.OLS, result.Ridge, result.Lasso} {
		event := logger.Info().
			Str("model", summary.Name).
			Float64("intercept", summary.Intercept).
			Float64("test_rmse", summary.TestRMSE)
		if summary.Lambda > 0 {
			event = event.Float64("lambda", summary.Lambda)
		}
		for _, p := range dataset.PredictorColumns {
			event = event.Float64("coef_"+p, summary.Coefficients[p])
		}
		event.Msg("fitted model")
	}

	best := result.OLS
	for _, candidate := range []analysis.ModelSummary{result.Ridge, result.Lasso} {
		if candidate.TestRMSE < best.TestRMSE {
			best = candidate
		}
	}
	logger.Info().Str("model", best.Name).Float64("test_rmse", best.TestRMSE).Msg("lowest held-out error")
}

// writePlots renders the diagnostic figures. Plotting problems are logged
// and skipped; the numeric results above already stand on their own.
func writePlots(logger zerolog.Logger, result *analysis.Result, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("cannot create plot directory")
		return
	}

	plots := []struct {
		name string
		draw func(path string) error
	}{
		{"ols_actual_vs_predicted.png", func(p string) error {
			return report.ActualVsPredicted(result.TestPredictions["ols"], "OLS: actual vs predicted", p)
		}},
		{"ridge_actual_vs_predicted.png", func(p string) error {
			return report.ActualVsPredicted(result.TestPredictions["ridge"], "Ridge: actual vs predicted", p)
		}},
		{"lasso_actual_vs_predicted.png", func(p string) error {
			return report.ActualVsPredicted(result.TestPredictions["lasso"], "Lasso: actual vs predicted", p)
		}},
		{"residual_histogram.png", func(p string) error {
			return report.ResidualHistogram(result.Residuals, 30, p)
		}},
		{"residual_qq.png", func(p string) error {
			return report.QQPlot(result.Residuals, p)
		}},
		{"ridge_cv_curve.png", func(p string) error {
			return report.CVCurve(result.RidgeCV, "Ridge cross-validation", p)
		}},
		{"lasso_cv_curve.png", func(p string) error {
			return report.CVCurve(result.LassoCV, "Lasso cross-validation", p)
		}},
	}

	for _, pl := range plots {
		path := filepath.Join(dir, pl.name)
		if err := pl.draw(path); err != nil {
			logger.Error().Err(err).Str("plot", pl.name).Msg("plot rendering failed")
			continue
		}
		logger.Info().Str("path", path).Msg("plot written")
	}
}
