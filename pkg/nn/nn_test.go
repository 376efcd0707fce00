package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 1.0, Sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, Sigmoid(-800), 1e-12)
	assert.False(t, math.IsNaN(Sigmoid(-800)))
	assert.InDelta(t, Sigmoid(2)+Sigmoid(-2), 1.0, 1e-12)
}

func TestBCE(t *testing.T) {
	loss, grad := BCE([]float64{1, 0}, []float64{0.5, 0.5})
	assert.InDelta(t, math.Ln2, loss, 1e-12)
	assert.Equal(t, []float64{-0.25, 0.25}, grad)

	loss, _ = BCE([]float64{1}, []float64{0})
	assert.False(t, math.IsInf(loss, 0), "clipped probabilities keep the loss finite")

	loss, grad = BCE(nil, nil)
	assert.Zero(t, loss)
	assert.Nil(t, grad)
}
