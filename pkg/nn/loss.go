package nn

import "math"

const probEpsilon = 1e-12

// BCE is the mean binary cross-entropy and its gradient with respect to the
// predicted probabilities' logits, i.e. (p - y) / n per sample.
// Use this loss when predicting probabilities for two classes.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	if n == 0 {
		return 0, nil
	}
	s := 0.0
	grad := make([]float64, n)

	for i := range n {
		p := math.Min(math.Max(yPred[i], probEpsilon), 1-probEpsilon)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (yPred[i] - y) / float64(n)
	}
	return s / float64(n), grad
}
