package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	scaler := NewStandardScalerDefault()
	out, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, scaler.Mean[0], 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), scaler.Scale[0], 1e-12)
	// constant column keeps unit scale
	assert.Equal(t, 1.0, scaler.Scale[1])

	sum := 0.0
	for i := 0; i < 4; i++ {
		sum += out.At(i, 0)
		assert.Equal(t, 0.0, out.At(i, 1))
	}
	assert.InDelta(t, 0.0, sum, 1e-12)
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, -4, 5, 0, 9, 8})
	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	back, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_Options(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	tests := []struct {
		name      string
		withMean  bool
		withStd   bool
		wantFirst float64
	}{
		{"both", true, true, -1},
		{"mean only", true, false, -1},
		{"std only", false, true, 2},
		{"neither", false, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewStandardScaler(tt.withMean, tt.withStd).FitTransform(X)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantFirst, out.At(0, 0), 1e-12)
		})
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = scaler.Transform(mat.NewDense(1, 3, []float64{1, 2, 3}))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	assert.Contains(t, scaler.String(), "n_features=2")
}
