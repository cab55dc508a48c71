// Package classifier implements the L2-regularised logistic-regression
// classifier of spec.md §4.4: IRLS training with grid-searched
// regularisation strength, and an overflow-safe sigmoid at inference.
package classifier

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"

	"github.com/kittclouds/matchkit/errs"
)

// Model is a trained linear classifier: score = sigmoid(bias + x·weights).
type Model struct {
	Weights []float64
	Bias    float64
}

// candidateAlphas is the small fixed grid spec.md §4.4 calls for.
var candidateAlphas = []float64{0.001, 0.01, 0.1, 1, 10}

const maxIRLSIterations = 50
const irlsTolerance = 1e-6

// Sigmoid is the overflow-safe logistic function, using the exp(-|x|) form
// spec.md §4.4 requires.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		z := math32.Exp(float32(-x))
		return 1 / (1 + float64(z))
	}
	z := math32.Exp(float32(x))
	return float64(z) / (1 + float64(z))
}

// Score applies the trained model to a single feature row.
func (m *Model) Score(features []float32) float64 {
	sum := m.Bias
	for i, w := range m.Weights {
		if i < len(features) {
			sum += w * float64(features[i])
		}
	}
	return Sigmoid(sum)
}

// Train fits a Model via grid search over candidateAlphas, selecting the
// alpha minimising k-fold cross-validated log-loss, per spec.md §4.4.
// X is (n, p) row-major; y[i] is 1 for match, 0 for distinct.
func Train(x [][]float32, y []int) (*Model, error) {
	n := len(x)
	if n == 0 {
		return nil, errs.Wrap(errs.ErrTraining, "no training examples")
	}
	nMatch := 0
	for _, label := range y {
		if label == 1 {
			nMatch++
		}
	}
	if nMatch < 2 || n-nMatch < 2 {
		return nil, errs.Wrap(errs.ErrTraining, "training set needs at least two matches and two distincts")
	}
	varies := false
	for j := 0; j < len(x[0]) && !varies; j++ {
		for i := 1; i < n; i++ {
			if x[i][j] != x[0][j] {
				varies = true
				break
			}
		}
	}
	if !varies {
		return nil, errs.Wrap(errs.ErrTraining, "every feature column has zero variance")
	}

	k := nMatch / 3
	if k > 20 {
		k = 20
	}
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	const worstPossibleLoss = 1e18
	bestAlpha := candidateAlphas[0]
	bestLoss := worstPossibleLoss
	for _, alpha := range candidateAlphas {
		loss, err := crossValidatedLogLoss(x, y, alpha, k)
		if err != nil {
			return nil, err
		}
		if loss < bestLoss {
			bestLoss = loss
			bestAlpha = alpha
		}
	}

	return fitIRLS(x, y, bestAlpha)
}

func crossValidatedLogLoss(x [][]float32, y []int, alpha float64, k int) (float64, error) {
	n := len(x)
	foldSize := n / k
	if foldSize == 0 {
		foldSize = 1
	}

	var totalLoss float64
	var totalCount int
	for fold := 0; fold < k; fold++ {
		start := fold * foldSize
		end := start + foldSize
		if fold == k-1 {
			end = n
		}
		if start >= end {
			continue
		}

		var trainX [][]float32
		var trainY []int
		var testX [][]float32
		var testY []int
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}
		if len(trainX) == 0 || len(testX) == 0 {
			continue
		}

		model, err := fitIRLS(trainX, trainY, alpha)
		if err != nil {
			continue
		}
		for i, row := range testX {
			p := model.Score(row)
			totalLoss += logLoss(p, testY[i])
			totalCount++
		}
	}
	if totalCount == 0 {
		return 1e18, nil
	}
	return totalLoss / float64(totalCount), nil
}

func logLoss(p float64, label int) float64 {
	const eps = 1e-12
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	if label == 1 {
		return -logf64(p)
	}
	return -logf64(1 - p)
}

func logf64(v float64) float64 { return float64(math32.Log(float32(v))) }

// fitIRLS solves L2-regularised logistic regression via iteratively
// reweighted least squares, grounded on the Newton-Raphson update used by
// dedupe/core.py:trainModel.
func fitIRLS(x [][]float32, y []int, alpha float64) (*Model, error) {
	n := len(x)
	if n == 0 {
		return nil, errs.Wrap(errs.ErrTraining, "empty fold")
	}
	p := len(x[0])

	// Design matrix with an intercept column prepended.
	design := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, float64(v))
		}
	}
	yv := mat.NewVecDense(n, nil)
	for i, label := range y {
		yv.SetVec(i, float64(label))
	}

	beta := mat.NewVecDense(p+1, nil)

	for iter := 0; iter < maxIRLSIterations; iter++ {
		eta := mat.NewVecDense(n, nil)
		eta.MulVec(design, beta)

		mu := mat.NewVecDense(n, nil)
		w := mat.NewDiagDense(n, nil)
		for i := 0; i < n; i++ {
			pi := Sigmoid(eta.AtVec(i))
			mu.SetVec(i, pi)
			variance := pi * (1 - pi)
			if variance < 1e-6 {
				variance = 1e-6
			}
			w.SetDiag(i, variance)
		}

		// Working response z = eta + W^-1(y - mu).
		z := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			variance := w.At(i, i)
			z.SetVec(i, eta.AtVec(i)+(yv.AtVec(i)-mu.AtVec(i))/variance)
		}

		var wx mat.Dense
		wx.Mul(w, design)
		var xtwx mat.Dense
		xtwx.Mul(design.T(), &wx)

		for j := 1; j <= p; j++ {
			xtwx.Set(j, j, xtwx.At(j, j)+alpha)
		}

		var wz mat.VecDense
		wz.MulVec(w, z)
		var xtwz mat.VecDense
		xtwz.MulVec(design.T(), &wz)

		var newBeta mat.VecDense
		if err := newBeta.SolveVec(&xtwx, &xtwz); err != nil {
			return nil, errs.Wrap(errs.ErrTraining, "IRLS system singular: %v", err)
		}

		var delta float64
		for j := 0; j <= p; j++ {
			d := newBeta.AtVec(j) - beta.AtVec(j)
			delta += d * d
		}
		beta = &newBeta
		if delta < irlsTolerance {
			break
		}
	}

	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = beta.AtVec(j + 1)
	}
	return &Model{Weights: weights, Bias: beta.AtVec(0)}, nil
}
