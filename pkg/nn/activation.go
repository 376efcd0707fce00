package nn

import "math"

// Sigmoid is the logistic function, evaluated in a form that does not overflow
// for large negative inputs.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}
