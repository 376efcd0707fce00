package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/nn"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/optim"
)

// Default hyperparameters, matching the usual logistic regression defaults.
const (
	DefaultC       = 1.0
	DefaultMaxIter = 1000
	DefaultTol     = 1e-4
)

var (
	ErrNotFitted       = errors.New("model: classifier is not fitted")
	ErrFeatureMismatch = errors.New("model: feature count mismatch")
	ErrSingleClass     = errors.New("model: training labels contain a single class")
)

// LogisticRegression is a binary classifier with an L2 penalty.
//
// Training minimizes mean binary cross-entropy plus ||W||^2 / (2*C*n) with
// full-batch gradient descent from a zero start, so two fits on the same data
// produce the same weights. Training stops after MaxIter iterations or once
// the largest gradient component drops below Tol.
type LogisticRegression struct {
	W []float64 `json:"coef"`
	B float64   `json:"intercept"`

	C            float64 `json:"c"`
	MaxIter      int     `json:"max_iter"`
	Tol          float64 `json:"tol"`
	LearningRate float64 `json:"learning_rate,omitempty"` // 0 derives a safe step from the data

	NIter     int  `json:"n_iter"`
	Converged bool `json:"converged"`

	// OnIteration, when set, is called after each gradient evaluation.
	OnIteration func(iter int, loss float64) `json:"-"`
}

var _ Classifier = (*LogisticRegression)(nil)

// Option configures a LogisticRegression.
type Option func(*LogisticRegression)

func WithC(c float64) Option {
	return func(m *LogisticRegression) { m.C = c }
}

func WithMaxIter(n int) Option {
	return func(m *LogisticRegression) { m.MaxIter = n }
}

func WithTol(tol float64) Option {
	return func(m *LogisticRegression) { m.Tol = tol }
}

func WithLearningRate(lr float64) Option {
	return func(m *LogisticRegression) { m.LearningRate = lr }
}

func WithProgress(fn func(iter int, loss float64)) Option {
	return func(m *LogisticRegression) { m.OnIteration = fn }
}

// NewLogisticRegression returns an unfitted classifier with default hyperparameters
// overridden by opts.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	m := &LogisticRegression{C: DefaultC, MaxIter: DefaultMaxIter, Tol: DefaultTol}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Fitted reports whether the classifier holds learned weights.
func (m *LogisticRegression) Fitted() bool { return m.W != nil }

// Fit trains the classifier on X (rows of features) and y (labels 0 or 1).
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.New("model: cannot fit on zero rows")
	}
	if len(y) != n {
		return errors.Errorf("model: %d rows but %d labels", n, len(y))
	}
	if m.C <= 0 {
		return errors.Errorf("model: C must be positive, got %g", m.C)
	}
	if m.MaxIter <= 0 {
		return errors.Errorf("model: max_iter must be positive, got %d", m.MaxIter)
	}
	var positives int
	for _, v := range y {
		if v != 0 && v != 1 {
			return errors.Errorf("model: labels must be 0 or 1, got %g", v)
		}
		positives += int(v)
	}
	if positives == 0 || positives == n {
		return ErrSingleClass
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return errors.Wrapf(ErrFeatureMismatch, "row %d has %d features, want %d", i, len(row), d)
		}
	}

	alpha := 1 / (m.C * float64(n))
	lr := m.LearningRate
	if lr <= 0 {
		lr = 1 / lipschitzBound(X, alpha)
	}
	opt := optim.NewSGD(lr)

	m.W = make([]float64, d)
	m.B = 0
	m.Converged = false
	gW := make([]float64, d)
	for it := 1; it <= m.MaxIter; it++ {
		p := m.proba(X)
		loss, dy := nn.BCE(y, p)
		loss += 0.5 * alpha * floats.Dot(m.W, m.W)

		for j := range gW {
			gW[j] = alpha * m.W[j]
		}
		gb := 0.0
		for i, row := range X {
			floats.AddScaled(gW, dy[i], row)
			gb += dy[i]
		}

		m.NIter = it
		if m.OnIteration != nil {
			m.OnIteration(it, loss)
		}
		if math.Max(floats.Norm(gW, math.Inf(1)), math.Abs(gb)) < m.Tol {
			m.Converged = true
			break
		}
		opt.Step(m.W, gW)
		m.B = opt.StepScalar(m.B, gb)
	}
	if m.Converged {
		klog.V(1).Infof("logistic regression converged after %d iterations", m.NIter)
	} else {
		klog.Warningf("logistic regression did not converge within %d iterations; consider raising max_iter", m.MaxIter)
	}
	return nil
}

// lipschitzBound bounds the smoothness constant of the objective by the trace
// of its Hessian upper bound, giving a step size for which descent is monotone.
func lipschitzBound(X [][]float64, alpha float64) float64 {
	sum := 0.0
	for _, row := range X {
		sum += floats.Dot(row, row) + 1
	}
	return 0.25*sum/float64(len(X)) + alpha
}

func (m *LogisticRegression) proba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = nn.Sigmoid(floats.Dot(m.W, row) + m.B)
	}
	return out
}

// PredictProba returns p(y=1) for each row in X.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, errors.Wrapf(ErrFeatureMismatch, "row %d has %d features, model expects %d", i, len(row), len(m.W))
		}
	}
	return m.proba(X), nil
}

// Predict returns the class label of each row: 1 when p(y=1) > 0.5.
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return BinaryPredFromProba(proba, 0.5), nil
}
