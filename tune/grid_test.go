package tune

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func TestGrid_PointsOrder(t *testing.T) {
	grid := Grid{
		{Name: "alpha", Values: []float64{0.1, 1}},
		{Name: "max_iter", Values: []float64{10, 20, 30}},
	}

	points, err := grid.Points()
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, 6, grid.Size())

	var got []string
	for _, p := range points {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"alpha=0.1, max_iter=10",
		"alpha=0.1, max_iter=20",
		"alpha=0.1, max_iter=30",
		"alpha=1, max_iter=10",
		"alpha=1, max_iter=20",
		"alpha=1, max_iter=30",
	}, got)
}

func TestGrid_NoParams(t *testing.T) {
	points, err := Grid{}.Points()
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Empty(t, points[0])
	assert.Equal(t, "", points[0].String())
}

func TestGrid_Validate(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
	}{
		{"empty name", Grid{{Name: "", Values: []float64{1}}}},
		{"duplicate", Grid{{Name: "a", Values: []float64{1}}, {Name: "a", Values: []float64{2}}}},
		{"no values", Grid{{Name: "a"}}},
		{"NaN", Grid{{Name: "a", Values: []float64{math.NaN()}}}},
		{"Inf", Grid{{Name: "a", Values: []float64{math.Inf(1)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.grid.Points()
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestPoint_Accessors(t *testing.T) {
	p := Point{{Name: "alpha", Value: 0.5}, {Name: "max_iter", Value: 250.7}}

	assert.Equal(t, 0.5, p.Get("alpha", 1))
	assert.Equal(t, 1.0, p.Get("l1_ratio", 1))
	assert.Equal(t, 250, p.Int("max_iter", 100))
	assert.Equal(t, 100, p.Int("tol", 100))

	_, ok := p.Lookup("tol")
	assert.False(t, ok)
	assert.Equal(t, map[string]float64{"alpha": 0.5, "max_iter": 250.7}, p.Map())
}
