// Package analysis wires the full touchdown regression workflow: load and
// filter the player-season table, split it, fit OLS, run the
// multicollinearity and residual diagnostics, fit cross-validated ridge and
// lasso, and compare test RMSE across the three variants. All state is
// threaded through explicit values; nothing ambient survives a run.
package analysis

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/core/model"
	"github.com/gridironlab/tdreg/dataset"
	"github.com/gridironlab/tdreg/diagnostics"
	"github.com/gridironlab/tdreg/linear"
	"github.com/gridironlab/tdreg/metrics"
	"github.com/gridironlab/tdreg/pkg/errors"
	"github.com/gridironlab/tdreg/preprocessing"
)

// Config holds every knob of a run. The penalty policies are deliberately
// per-model: the source analysis pairs the conservative lambda_1se with
// ridge and lambda_min with lasso, but that pairing is editorial.
type Config struct {
	// CSVPath is the input file. Ignored when Table is set.
	CSVPath string
	// Table lets callers inject an in-memory table, mainly for tests and
	// synthetic benchmarks.
	Table *dataset.Table

	Schema    dataset.Schema
	Positions []string

	Seed          uint64
	TrainFraction float64

	Folds          int
	NLambdas       int
	LambdaMinRatio float64
	Tol            float64
	MaxIter        int

	RidgePolicy linear.PenaltyPolicy
	LassoPolicy linear.PenaltyPolicy

	VIFThreshold float64
	ResidualBins int

	Logger zerolog.Logger
}

// DefaultConfig reproduces the reference analysis: seed 42, 80/20 split,
// 10-fold CV over a 100-point grid, ridge at lambda_1se, lasso at
// lambda_min, VIF threshold 5.
func DefaultConfig(csvPath string) Config {
	return Config{
		CSVPath:        csvPath,
		Schema:         dataset.DefaultSchema(),
		Positions:      dataset.OffensiveSkillPositions,
		Seed:           42,
		TrainFraction:  0.8,
		Folds:          10,
		NLambdas:       100,
		LambdaMinRatio: 1e-4,
		Tol:            1e-7,
		MaxIter:        1000,
		RidgePolicy:    linear.PolicyLambda1SE,
		LassoPolicy:    linear.PolicyLambdaMin,
		VIFThreshold:   5,
		ResidualBins:   10,
		Logger:         zerolog.Nop(),
	}
}

// PredictionPair is one (actual, predicted) test observation.
type PredictionPair struct {
	Actual    float64
	Predicted float64
}

// ModelSummary is the per-variant outcome: coefficients by predictor name,
// the penalty used (zero for OLS), and held-out error. Ridge and lasso
// coefficients are in standardized-predictor units.
type ModelSummary struct {
	Name         string
	Coefficients map[string]float64
	Intercept    float64
	Lambda       float64
	TestRMSE     float64
}

// Result is everything a run produces.
type Result struct {
	Rows      int // after filtering
	TrainRows int
	TestRows  int

	OLS       ModelSummary
	R2        float64
	AdjR2     float64
	StdErrors []float64 // intercept first

	VIFs         []diagnostics.VIFResult
	Residuals    []diagnostics.ResidualPoint
	ResidualBins []diagnostics.BinStat

	Ridge   ModelSummary
	Lasso   ModelSummary
	RidgeCV *linear.CVResult
	LassoCV *linear.CVResult

	TestPredictions map[string][]PredictionPair
}

// Run executes the pipeline once.
func Run(cfg Config) (*Result, error) {
	log := cfg.Logger

	table := cfg.Table
	if table == nil {
		var err error
		table, err = dataset.Load(cfg.CSVPath, cfg.Schema)
		if err != nil {
			return nil, err
		}
	}
	log.Info().Int("rows", table.Len()).Msg("dataset loaded")

	clean := table.FilterComplete(cfg.Positions...)
	if clean.Len() == 0 {
		return nil, errors.NewDataLoadError(cfg.CSVPath, "no rows remain after filtering", errors.ErrEmptyData)
	}
	log.Info().Int("rows", clean.Len()).Msg("dataset filtered to complete skill-position rows")

	train, test, err := clean.Split(cfg.Seed, cfg.TrainFraction)
	if err != nil {
		return nil, err
	}
	log.Info().Int("train", train.Len()).Int("test", test.Len()).Uint64("seed", cfg.Seed).Msg("train/test split")

	predictors := dataset.PredictorColumns
	Xtr, err := train.Matrix(predictors...)
	if err != nil {
		return nil, err
	}
	ytr, err := train.Vector(dataset.ColTouchdowns)
	if err != nil {
		return nil, err
	}
	Xte, err := test.Matrix(predictors...)
	if err != nil {
		return nil, err
	}
	yte, err := test.Vector(dataset.ColTouchdowns)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Rows:            clean.Len(),
		TrainRows:       train.Len(),
		TestRows:        test.Len(),
		TestPredictions: make(map[string][]PredictionPair, 3),
	}

	// OLS on raw predictors.
	ols := linear.NewOLSRegression()
	if err := ols.Fit(Xtr, ytr); err != nil {
		return nil, err
	}
	result.R2 = ols.R2()
	result.AdjR2 = ols.AdjustedR2()
	result.StdErrors = ols.StdErrors()
	result.OLS = summarize("ols", predictors, ols.Coef(), ols.Intercept(), 0)
	log.Info().Float64("r2", result.R2).Float64("adj_r2", result.AdjR2).Msg("OLS fitted")

	// Diagnostics: advisory only.
	result.VIFs, err = diagnostics.VIF(Xtr, predictors)
	if err != nil {
		return nil, err
	}
	diagnostics.WarnAboveThreshold(result.VIFs, cfg.VIFThreshold)

	result.Residuals, err = diagnostics.ResidualsVsFitted(ols, Xtr, ytr)
	if err != nil {
		return nil, err
	}
	result.ResidualBins, err = diagnostics.BinnedResidualVariance(result.Residuals, cfg.ResidualBins)
	if err != nil {
		return nil, err
	}

	// Standardize with training statistics only, then ridge and lasso.
	scaler := preprocessing.NewStandardScalerDefault()
	XtrS, err := scaler.FitTransform(Xtr)
	if err != nil {
		return nil, err
	}
	XteS, err := scaler.Transform(Xte)
	if err != nil {
		return nil, err
	}

	cvCfg := linear.CVConfig{
		Folds:          cfg.Folds,
		Seed:           cfg.Seed,
		NLambdas:       cfg.NLambdas,
		LambdaMinRatio: cfg.LambdaMinRatio,
	}

	ridge := linear.NewRidgeRegression()
	ridge.Tol, ridge.MaxIter = cfg.Tol, cfg.MaxIter
	cvCfg.Policy = cfg.RidgePolicy
	if err := ridge.FitCV(XtrS, ytr, cvCfg); err != nil {
		return nil, err
	}
	result.RidgeCV = ridge.CVResult()
	result.Ridge = summarize("ridge", predictors, ridge.Coef(), ridge.Intercept(), ridge.Lambda)
	log.Info().
		Float64("lambda", ridge.Lambda).
		Str("policy", cfg.RidgePolicy.String()).
		Float64("lambda_min", result.RidgeCV.LambdaMin).
		Float64("lambda_1se", result.RidgeCV.Lambda1SE).
		Msg("ridge fitted")

	lasso := linear.NewLassoRegression()
	lasso.Tol, lasso.MaxIter = cfg.Tol, cfg.MaxIter
	cvCfg.Policy = cfg.LassoPolicy
	if err := lasso.FitCV(XtrS, ytr, cvCfg); err != nil {
		return nil, err
	}
	result.LassoCV = lasso.CVResult()
	result.Lasso = summarize("lasso", predictors, lasso.Coef(), lasso.Intercept(), lasso.Lambda)
	log.Info().
		Float64("lambda", lasso.Lambda).
		Str("policy", cfg.LassoPolicy.String()).
		Float64("lambda_min", result.LassoCV.LambdaMin).
		Float64("lambda_1se", result.LassoCV.Lambda1SE).
		Msg("lasso fitted")

	// Side-by-side evaluation on the identical test split.
	if result.OLS.TestRMSE, result.TestPredictions["ols"], err = evaluate(ols, Xte, yte); err != nil {
		return nil, err
	}
	if result.Ridge.TestRMSE, result.TestPredictions["ridge"], err = evaluate(ridge, XteS, yte); err != nil {
		return nil, err
	}
	if result.Lasso.TestRMSE, result.TestPredictions["lasso"], err = evaluate(lasso, XteS, yte); err != nil {
		return nil, err
	}

	log.Info().
		Float64("ols", result.OLS.TestRMSE).
		Float64("ridge", result.Ridge.TestRMSE).
		Float64("lasso", result.Lasso.TestRMSE).
		Msg("test RMSE comparison")

	return result, nil
}

func evaluate(m model.Predictor, X mat.Matrix, y *mat.VecDense) (float64, []PredictionPair, error) {
	preds, err := m.Predict(X)
	if err != nil {
		return 0, nil, err
	}

	rmse, err := metrics.RMSEMatrix(y, preds)
	if err != nil {
		return 0, nil, err
	}

	n, _ := preds.Dims()
	pairs := make([]PredictionPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = PredictionPair{Actual: y.AtVec(i), Predicted: preds.At(i, 0)}
	}
	return rmse, pairs, nil
}

func summarize(name string, predictors []string, coefs []float64, intercept, lambda float64) ModelSummary {
	m := ModelSummary{
		Name:         name,
		Coefficients: make(map[string]float64, len(coefs)),
		Intercept:    intercept,
		Lambda:       lambda,
	}
	for j, p := range predictors {
		m.Coefficients[p] = coefs[j]
	}
	return m
}
