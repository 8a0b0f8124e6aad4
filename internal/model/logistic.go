// Package model holds the baseline classifier trained on customer features.
package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// LogisticRegression is an L2-regularised binary logistic classifier fitted
// by batch gradient descent on standardised features.
//
// The objective matches the usual 0.5·||w||² + C·Σ log-loss form; the
// intercept is not penalised. Labels must be 0 or 1.
type LogisticRegression struct {
	MaxIter      int
	C            float64
	LearningRate float64
	Tolerance    float64

	// Fitted state. Exported for the artifact encoder.
	Weights    []float64
	Intercept  float64
	Means      []float64
	Scales     []float64
	Labels     []int
	Iterations int
}

// NewLogisticRegression returns an unfitted classifier with the given settings.
func NewLogisticRegression(maxIter int, c, learningRate, tolerance float64) *LogisticRegression {
	return &LogisticRegression{
		MaxIter:      maxIter,
		C:            c,
		LearningRate: learningRate,
		Tolerance:    tolerance,
	}
}

// Fit trains the classifier on the rows of X against y.
//
// When y holds a single class the model is degenerate: it records that class
// and predicts it for every input without running the optimiser.
func (m *LogisticRegression) Fit(X *mat.Dense, y []int) error {
	if X == nil {
		return fmt.Errorf("Fit: no samples: %w", domain.ErrInsufficientData)
	}
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return fmt.Errorf("Fit: %d samples with %d features: %w", n, d, domain.ErrInsufficientData)
	}
	if len(y) != n {
		return fmt.Errorf("Fit: %d labels for %d samples", len(y), n)
	}

	seen := map[int]bool{}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("Fit: label %d at row %d is not binary", label, i)
		}
		seen[label] = true
	}
	m.Labels = m.Labels[:0]
	for label := range seen {
		m.Labels = append(m.Labels, label)
	}
	sort.Ints(m.Labels)

	m.Means = make([]float64, d)
	m.Scales = make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.Means[j], m.Scales[j] = mean, std
	}

	m.Weights = make([]float64, d)
	m.Intercept = 0
	m.Iterations = 0
	if m.Degenerate() {
		return nil
	}

	Z := m.standardise(X)
	target := make([]float64, n)
	for i, label := range y {
		target[i] = float64(label)
	}

	w := mat.NewVecDense(d, m.Weights)
	z := mat.NewVecDense(n, nil)
	residual := make([]float64, n)
	gradW := mat.NewVecDense(d, nil)
	grad := make([]float64, d+1)
	invN := 1 / float64(n)

	for it := 1; it <= m.MaxIter; it++ {
		z.MulVec(Z, w)
		for i := 0; i < n; i++ {
			residual[i] = sigmoid(z.AtVec(i)+m.Intercept) - target[i]
		}
		gradW.MulVec(Z.T(), mat.NewVecDense(n, residual))

		g := gradW.RawVector().Data
		floats.Scale(invN, g)
		floats.AddScaled(g, invN/m.C, m.Weights)
		gradB := floats.Sum(residual) * invN

		floats.AddScaled(m.Weights, -m.LearningRate, g)
		m.Intercept -= m.LearningRate * gradB
		m.Iterations = it

		copy(grad, g)
		grad[d] = gradB
		if floats.Norm(grad, 2) < m.Tolerance {
			break
		}
	}

	return nil
}

// Degenerate reports whether the training labels held a single class.
func (m *LogisticRegression) Degenerate() bool {
	return len(m.Labels) == 1
}

// Classes returns the labels observed during Fit, ascending.
func (m *LogisticRegression) Classes() []int {
	return append([]int(nil), m.Labels...)
}

// PredictProba returns P(label = 1) for each row of X.
func (m *LogisticRegression) PredictProba(X *mat.Dense) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	if m.Degenerate() {
		p := float64(m.Labels[0])
		for i := range out {
			out[i] = p
		}
		return out
	}

	Z := m.standardise(X)
	for i := 0; i < n; i++ {
		out[i] = sigmoid(floats.Dot(Z.RawRowView(i), m.Weights) + m.Intercept)
	}
	return out
}

// Predict returns the predicted label of each row of X.
func (m *LogisticRegression) Predict(X *mat.Dense) []int {
	proba := m.PredictProba(X)
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (m *LogisticRegression) standardise(X *mat.Dense) *mat.Dense {
	Z := mat.DenseCopyOf(X)
	Z.Apply(func(_, j int, v float64) float64 {
		return (v - m.Means[j]) / m.Scales[j]
	}, Z)
	return Z
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
