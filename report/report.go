// Package report renders the diagnostic figures of the analysis as PNG
// files: actual-vs-predicted scatter, residual histogram, a normal Q-Q plot
// of the residuals, and the cross-validation curve. Rendering failures are
// reported to the caller but are presentation-only; the numeric analysis
// never depends on this package.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gridironlab/tdreg/analysis"
	"github.com/gridironlab/tdreg/diagnostics"
	"github.com/gridironlab/tdreg/linear"
	"github.com/gridironlab/tdreg/pkg/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// ActualVsPredicted draws the test-set predictions of one model against the
// actual touchdown counts, with the identity line for reference.
func ActualVsPredicted(pairs []analysis.PredictionPair, title, path string) error {
	if len(pairs) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "report.ActualVsPredicted")
	}

	pts := make(plotter.XYs, len(pairs))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pair := range pairs {
		pts[i].X = pair.Actual
		pts[i].Y = pair.Predicted
		lo = math.Min(lo, math.Min(pair.Actual, pair.Predicted))
		hi = math.Max(hi, math.Max(pair.Actual, pair.Predicted))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual touchdowns"
	p.Y.Label.Text = "predicted touchdowns"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report.ActualVsPredicted")
	}
	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.XMin, identity.XMax = lo, hi

	p.Add(plotter.NewGrid(), scatter, identity)
	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.ActualVsPredicted")
}

// ResidualHistogram draws the distribution of training residuals.
func ResidualHistogram(points []diagnostics.ResidualPoint, bins int, path string) error {
	if len(points) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "report.ResidualHistogram")
	}

	values := make(plotter.Values, len(points))
	for i, pt := range points {
		values[i] = pt.Residual
	}

	p := plot.New()
	p.Title.Text = "Residual distribution"
	p.X.Label.Text = "residual"
	p.Y.Label.Text = "count"

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "report.ResidualHistogram")
	}
	p.Add(hist)

	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.ResidualHistogram")
}

// QQPlot draws sample residual quantiles against normal quantiles; points
// near the identity line support the normality assumption behind the OLS
// standard errors.
func QQPlot(points []diagnostics.ResidualPoint, path string) error {
	if len(points) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "report.QQPlot")
	}

	residuals := make([]float64, len(points))
	var mean float64
	for i, pt := range points {
		residuals[i] = pt.Residual
		mean += pt.Residual
	}
	mean /= float64(len(residuals))

	var variance float64
	for _, r := range residuals {
		variance += (r - mean) * (r - mean)
	}
	sd := math.Sqrt(variance / float64(len(residuals)))
	if sd == 0 {
		sd = 1
	}

	sort.Float64s(residuals)
	normal := distuv.Normal{Mu: mean, Sigma: sd}

	pts := make(plotter.XYs, len(residuals))
	n := float64(len(residuals))
	for i, r := range residuals {
		pts[i].X = normal.Quantile((float64(i) + 0.5) / n)
		pts[i].Y = r
	}

	p := plot.New()
	p.Title.Text = "Normal Q-Q plot of residuals"
	p.X.Label.Text = "theoretical quantiles"
	p.Y.Label.Text = "sample quantiles"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report.QQPlot")
	}
	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.XMin, identity.XMax = pts[0].X, pts[len(pts)-1].X

	p.Add(plotter.NewGrid(), scatter, identity)
	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.QQPlot")
}

// CVCurve draws the cross-validated error over the penalty grid on a log
// axis, with the lambda_min and lambda_1se selections marked.
func CVCurve(cv *linear.CVResult, title, path string) error {
	if cv == nil || len(cv.Lambdas) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "report.CVCurve")
	}

	pts := make(plotter.XYs, len(cv.Lambdas))
	for i, lambda := range cv.Lambdas {
		pts[i].X = math.Log10(lambda)
		pts[i].Y = cv.MeanErrors[i]
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "log10(lambda)"
	p.Y.Label.Text = "cross-validated MSE"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "report.CVCurve")
	}

	selected := plotter.XYs{}
	for i, lambda := range cv.Lambdas {
		if lambda == cv.LambdaMin || lambda == cv.Lambda1SE {
			selected = append(selected, plotter.XY{X: math.Log10(lambda), Y: cv.MeanErrors[i]})
		}
	}
	marks, err := plotter.NewScatter(selected)
	if err != nil {
		return errors.Wrap(err, "report.CVCurve")
	}

	p.Add(plotter.NewGrid(), line, marks)
	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.CVCurve")
}
