package tune

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMatrix(t *testing.T) {
	m := newScoreMatrix(3, 2)
	for r, row := range [][]float64{{1, 10}, {2, 20}, {3, 30}} {
		for p, v := range row {
			m.set(r, p, v)
		}
	}

	reps, pts := m.Dims()
	assert.Equal(t, 3, reps)
	assert.Equal(t, 2, pts)
	assert.Equal(t, 20.0, m.At(1, 1))
	assert.Equal(t, []float64{10, 20, 30}, m.Column(1))
	assert.Equal(t, []float64{3, 30}, m.Row(2))
	assert.Equal(t, []float64{2, 20}, m.Means())
	assert.InDelta(t, 1.0, m.Std(0), 1e-12)
	assert.InDelta(t, 10.0, m.Std(1), 1e-12)

	single := newScoreMatrix(1, 1)
	single.set(0, 0, 0.7)
	assert.Equal(t, 0.0, single.Std(0))
	assert.False(t, math.IsNaN(single.Mean(0)))
}
