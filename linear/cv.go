package linear

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/pkg/errors"
)

// PenaltyPolicy chooses which cross-validated lambda a final refit uses.
// The choice between the error-minimizing penalty and the more conservative
// one-standard-error penalty is editorial, so it is configuration, not code.
type PenaltyPolicy int

const (
	// PolicyLambdaMin refits at the penalty with the lowest CV error.
	PolicyLambdaMin PenaltyPolicy = iota
	// PolicyLambda1SE refits at the largest penalty whose CV error stays
	// within one standard error of the minimum.
	PolicyLambda1SE
)

func (p PenaltyPolicy) String() string {
	if p == PolicyLambda1SE {
		return "lambda_1se"
	}
	return "lambda_min"
}

// CVConfig controls the cross-validated penalty search.
type CVConfig struct {
	Folds          int
	Seed           uint64
	NLambdas       int
	LambdaMinRatio float64
	Policy         PenaltyPolicy
}

// DefaultCVConfig mirrors the glmnet-style defaults: 10 folds, a 100-point
// grid down to lambda_max·1e-4.
func DefaultCVConfig() CVConfig {
	return CVConfig{
		Folds:          10,
		Seed:           42,
		NLambdas:       100,
		LambdaMinRatio: 1e-4,
		Policy:         PolicyLambdaMin,
	}
}

// CVResult records the cross-validation curve over the penalty grid and the
// two distinguished penalties derived from it. Lambda1SE ≥ LambdaMin by
// construction.
type CVResult struct {
	Lambdas    []float64 // descending
	MeanErrors []float64 // mean held-out MSE per lambda
	StdErrors  []float64 // standard error of the fold MSEs per lambda

	LambdaMin float64
	Lambda1SE float64
}

// LambdaFor resolves a policy to a concrete penalty value.
func (r *CVResult) LambdaFor(policy PenaltyPolicy) float64 {
	if policy == PolicyLambda1SE {
		return r.Lambda1SE
	}
	return r.LambdaMin
}

// kFold is a seeded k-fold index splitter.
type kFold struct {
	nSplits int
	seed    uint64
}

// fold holds the row indices of one CV fold.
type fold struct {
	train []int
	test  []int
}

func newKFold(nSplits int, seed uint64) *kFold {
	if nSplits < 2 {
		nSplits = 10
	}
	return &kFold{nSplits: nSplits, seed: seed}
}

// split shuffles the row indices with a seeded PCG and deals them into k
// roughly equal folds.
func (kf *kFold) split(nSamples int) []fold {
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	r := rand.New(rand.NewPCG(kf.seed, kf.seed))
	r.Shuffle(nSamples, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	folds := make([]fold, kf.nSplits)
	foldSize := nSamples / kf.nSplits
	remainder := nSamples % kf.nSplits

	isTest := make([]bool, nSamples)
	current := 0
	for f := 0; f < kf.nSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])
		current += testSize

		for i := range isTest {
			isTest[i] = false
		}
		for _, idx := range test {
			isTest[idx] = true
		}

		train := make([]int, 0, nSamples-testSize)
		for i := 0; i < nSamples; i++ {
			if !isTest[i] {
				train = append(train, i)
			}
		}

		folds[f] = fold{train: train, test: test}
	}

	return folds
}

// crossValidate walks the lambda grid once per fold, warm-starting each fit
// from the previous (larger) lambda's solution, and aggregates held-out MSE
// into a CVResult. Non-convergence is counted and surfaced as a single
// ConvergenceWarning; the run keeps the best solutions found.
func crossValidate(X mat.Matrix, y *mat.VecDense, lambdas []float64, kind PenaltyKind, cfg CVConfig, tol float64, maxIter int) (*CVResult, error) {
	n, _ := X.Dims()
	if n < cfg.Folds {
		return nil, errors.NewValueError("crossValidate", "fewer rows than folds")
	}
	if len(lambdas) == 0 {
		return nil, errors.NewValueError("crossValidate", "empty lambda grid")
	}

	folds := newKFold(cfg.Folds, cfg.Seed).split(n)
	foldErrs := make([][]float64, len(lambdas))
	for li := range foldErrs {
		foldErrs[li] = make([]float64, len(folds))
	}

	nonConverged := 0
	worstLambda := 0.0

	for fi, f := range folds {
		Xtr, ytr := subsetRows(X, y, f.train)
		Xte, yte := subsetRows(X, y, f.test)

		var warm []float64
		for li, lambda := range lambdas {
			w, b, _, converged := coordinateDescent(Xtr, ytr, lambda, kind, warm, tol, maxIter)
			warm = w
			if !converged {
				nonConverged++
				worstLambda = lambda
			}
			foldErrs[li][fi] = heldOutMSE(Xte, yte, w, b)
		}
	}

	if nonConverged > 0 {
		errors.Warn(errors.NewConvergenceWarning(
			kind.String()+" coordinate descent", maxIter, worstLambda,
			"during cross-validation; keeping best solutions found"))
	}

	result := &CVResult{
		Lambdas:    lambdas,
		MeanErrors: make([]float64, len(lambdas)),
		StdErrors:  make([]float64, len(lambdas)),
	}

	k := float64(len(folds))
	minIdx := 0
	for li := range lambdas {
		var mean float64
		for _, e := range foldErrs[li] {
			mean += e
		}
		mean /= k

		var variance float64
		for _, e := range foldErrs[li] {
			variance += (e - mean) * (e - mean)
		}
		variance /= k

		result.MeanErrors[li] = mean
		result.StdErrors[li] = math.Sqrt(variance) / math.Sqrt(k)

		if mean < result.MeanErrors[minIdx] {
			minIdx = li
		}
	}

	result.LambdaMin = lambdas[minIdx]

	// Largest lambda within one standard error of the minimum. The grid is
	// descending, so the first qualifying index wins.
	threshold := result.MeanErrors[minIdx] + result.StdErrors[minIdx]
	result.Lambda1SE = result.LambdaMin
	for li := 0; li <= minIdx; li++ {
		if result.MeanErrors[li] <= threshold {
			result.Lambda1SE = lambdas[li]
			break
		}
	}

	return result, nil
}

func subsetRows(X mat.Matrix, y *mat.VecDense, indices []int) (*mat.Dense, *mat.VecDense) {
	_, p := X.Dims()
	sub := mat.NewDense(len(indices), p, nil)
	yv := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		for j := 0; j < p; j++ {
			sub.Set(i, j, X.At(idx, j))
		}
		yv.SetVec(i, y.AtVec(idx))
	}
	return sub, yv
}

func heldOutMSE(X mat.Matrix, y *mat.VecDense, weights []float64, intercept float64) float64 {
	n, p := X.Dims()
	var sum float64
	for i := 0; i < n; i++ {
		pred := intercept
		for j := 0; j < p; j++ {
			pred += X.At(i, j) * weights[j]
		}
		diff := y.AtVec(i) - pred
		sum += diff * diff
	}
	return sum / float64(n)
}
