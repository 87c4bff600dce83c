// Package logreg implements multinomial logistic regression over sparse
// feature vectors, fitted with L-BFGS.
package logreg

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"leavereason/pkg/textfeatures"
)

var (
	ErrNotFitted     = errors.New("logreg: model not fitted")
	ErrEmptyTraining = errors.New("logreg: no training samples")
	ErrSizeMismatch  = errors.New("logreg: samples and labels size mismatch")
	ErrSingleClass   = errors.New("logreg: need at least two classes")
	ErrFeatureIndex  = errors.New("logreg: feature index out of range")
	ErrShapeMismatch = errors.New("logreg: weight shape mismatch")
)

const (
	DefaultMaxIter = 1000
	DefaultC       = 1.0
)

// Options control fitting.
type Options struct {
	// MaxIter caps the number of L-BFGS major iterations.
	MaxIter int
	// C is the inverse L2 regularization strength. Intercepts are not penalized.
	C float64
	// GradientTolerance stops the solver once the gradient norm drops below it.
	GradientTolerance float64
}

// DefaultOptions mirrors the usual library defaults: C=1, 1000 iterations.
func DefaultOptions() Options {
	return Options{MaxIter: DefaultMaxIter, C: DefaultC, GradientTolerance: 1e-6}
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.C <= 0 {
		o.C = DefaultC
	}
	if o.GradientTolerance <= 0 {
		o.GradientTolerance = 1e-6
	}
	return o
}

// FitReport describes how the solver terminated.
type FitReport struct {
	Iterations int
	Converged  bool
	Loss       float64
	Status     string
}

// Model is a fitted softmax classifier. Classes are kept in sorted order and
// Weights[k] is the coefficient row of Classes[k].
type Model struct {
	Classes    []string    `json:"labels"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	C          float64     `json:"c"`
	MaxIter    int         `json:"max_iter"`
}

// Fit trains a model on sparse samples of the given feature dimension.
// Hitting the iteration cap is not an error; it is reported through
// FitReport.Converged.
func Fit(samples []textfeatures.SparseVector, labels []string, dim int, opts Options) (*Model, FitReport, error) {
	if len(samples) == 0 || len(labels) == 0 {
		return nil, FitReport{}, ErrEmptyTraining
	}
	if len(samples) != len(labels) {
		return nil, FitReport{}, ErrSizeMismatch
	}
	opts = opts.withDefaults()

	classes := uniqueSorted(labels)
	if len(classes) < 2 {
		return nil, FitReport{}, ErrSingleClass
	}
	for _, s := range samples {
		for _, idx := range s.Indices {
			if idx < 0 || idx >= dim {
				return nil, FitReport{}, fmt.Errorf("%w: %d (dimension %d)", ErrFeatureIndex, idx, dim)
			}
		}
	}

	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = classIdx[l]
	}

	obj := &objective{
		samples: samples,
		y:       y,
		k:       len(classes),
		dim:     dim,
		c:       opts.C,
	}

	problem := optimize.Problem{
		Func: obj.loss,
		Grad: obj.grad,
	}
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIter,
		GradientThreshold: opts.GradientTolerance,
	}
	x0 := make([]float64, obj.k*(dim+1))

	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, FitReport{}, fmt.Errorf("logreg: optimize: %w", err)
	}
	if !allFinite(result.X) {
		return nil, FitReport{}, fmt.Errorf("logreg: solver diverged (status %v): %w", result.Status, err)
	}

	report := FitReport{
		Iterations: result.Stats.MajorIterations,
		Converged:  err == nil && result.Status != optimize.IterationLimit,
		Loss:       result.F,
		Status:     result.Status.String(),
	}

	m := &Model{
		Classes:    classes,
		Weights:    make([][]float64, obj.k),
		Intercepts: make([]float64, obj.k),
		C:          opts.C,
		MaxIter:    opts.MaxIter,
	}
	for k := 0; k < obj.k; k++ {
		row := result.X[k*(dim+1) : (k+1)*(dim+1)]
		m.Weights[k] = append([]float64(nil), row[:dim]...)
		m.Intercepts[k] = row[dim]
	}
	return m, report, nil
}

// Dimension is the number of features the model expects.
func (m *Model) Dimension() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// Validate checks that the weights form a consistent classes x dimension matrix.
func (m *Model) Validate() error {
	if len(m.Classes) == 0 {
		return ErrNotFitted
	}
	if len(m.Weights) != len(m.Classes) || len(m.Intercepts) != len(m.Classes) {
		return fmt.Errorf("%w: %d classes, %d weight rows, %d intercepts",
			ErrShapeMismatch, len(m.Classes), len(m.Weights), len(m.Intercepts))
	}
	dim := len(m.Weights[0])
	for k, row := range m.Weights {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d weights, want %d", ErrShapeMismatch, k, len(row), dim)
		}
	}
	return nil
}

// Scores returns the linear decision value of every class.
func (m *Model) Scores(x textfeatures.SparseVector) []float64 {
	scores := make([]float64, len(m.Classes))
	for k := range m.Classes {
		scores[k] = m.Intercepts[k] + x.Dot(m.Weights[k])
	}
	return scores
}

// Predict returns the class with the highest score; ties go to the first class.
func (m *Model) Predict(x textfeatures.SparseVector) (string, error) {
	if len(m.Classes) == 0 {
		return "", ErrNotFitted
	}
	for _, idx := range x.Indices {
		if idx < 0 || idx >= m.Dimension() {
			return "", fmt.Errorf("%w: %d", ErrFeatureIndex, idx)
		}
	}
	return m.Classes[floats.MaxIdx(m.Scores(x))], nil
}

// Probabilities returns the softmax distribution over Classes.
func (m *Model) Probabilities(x textfeatures.SparseVector) []float64 {
	p := m.Scores(x)
	softmaxInPlace(p)
	return p
}

// objective is the mean cross-entropy plus ||W||^2/(2*C*n). The parameter
// vector stores, per class, dim weights followed by the intercept.
type objective struct {
	samples []textfeatures.SparseVector
	y       []int
	k       int
	dim     int
	c       float64
}

func (o *objective) scores(x []float64, s textfeatures.SparseVector, out []float64) {
	stride := o.dim + 1
	for k := 0; k < o.k; k++ {
		row := x[k*stride : (k+1)*stride]
		out[k] = row[o.dim] + s.Dot(row[:o.dim])
	}
}

func (o *objective) loss(x []float64) float64 {
	n := float64(len(o.samples))
	z := make([]float64, o.k)
	var total float64
	for i, s := range o.samples {
		o.scores(x, s, z)
		total += logSumExp(z) - z[o.y[i]]
	}
	return total/n + o.penalty(x)/(2*o.c*n)
}

func (o *objective) penalty(x []float64) float64 {
	stride := o.dim + 1
	var sum float64
	for k := 0; k < o.k; k++ {
		row := x[k*stride : k*stride+o.dim]
		sum += floats.Dot(row, row)
	}
	return sum
}

func (o *objective) grad(grad, x []float64) {
	for i := range grad {
		grad[i] = 0
	}
	n := float64(len(o.samples))
	stride := o.dim + 1
	p := make([]float64, o.k)

	for i, s := range o.samples {
		o.scores(x, s, p)
		softmaxInPlace(p)
		p[o.y[i]] -= 1
		for k := 0; k < o.k; k++ {
			base := k * stride
			for j, idx := range s.Indices {
				grad[base+idx] += p[k] * s.Values[j]
			}
			grad[base+o.dim] += p[k]
		}
	}

	reg := 1 / (o.c * n)
	for k := 0; k < o.k; k++ {
		base := k * stride
		for j := 0; j < o.dim; j++ {
			grad[base+j] = grad[base+j]/n + reg*x[base+j]
		}
		grad[base+o.dim] /= n
	}
}

func logSumExp(z []float64) float64 {
	max := floats.Max(z)
	var sum float64
	for _, v := range z {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum)
}

func softmaxInPlace(z []float64) {
	lse := logSumExp(z)
	for i := range z {
		z[i] = math.Exp(z[i] - lse)
	}
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
