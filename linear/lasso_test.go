package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func TestLasso_LargeAlphaZerosWeights(t *testing.T) {
	X, y := syntheticRegression(80, 4, 0.2, 5)

	m := NewLasso(WithAlpha(1e6))
	require.NoError(t, m.Fit(X, y))

	for j := 0; j < 4; j++ {
		assert.Zero(t, m.Weights.AtVec(j))
	}
	assert.InDelta(t, floats.Sum(mat.Col(nil, 0, y))/80, m.Intercept, 1e-12)
	assert.Equal(t, 1, m.NIter)
}

func TestLasso_SmallAlphaMatchesOLS(t *testing.T) {
	X, y := syntheticRegression(120, 3, 0.2, 9)

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	m := NewLasso(WithAlpha(1e-8), WithTol(1e-12), WithMaxIter(10000))
	require.NoError(t, m.Fit(X, y))

	for j, w := range ols.GetWeights() {
		assert.InDelta(t, w, m.Weights.AtVec(j), 1e-4)
	}
}

func TestLasso_DropsIrrelevantFeature(t *testing.T) {
	// y depends on column 0 only
	X, _ := syntheticRegression(200, 2, 0, 13)
	y := mat.NewDense(200, 1, nil)
	for i := 0; i < 200; i++ {
		y.Set(i, 0, 3*X.At(i, 0))
	}

	m := NewLasso(WithAlpha(0.1))
	require.NoError(t, m.Fit(X, y))
	assert.Zero(t, m.Weights.AtVec(1))
	assert.Greater(t, m.Weights.AtVec(0), 2.0)
}

func TestLasso_ConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	X, y := syntheticRegression(60, 5, 0.5, 17)
	m := NewLasso(WithAlpha(1e-4), WithMaxIter(1), WithTol(1e-15))
	require.NoError(t, m.Fit(X, y))

	require.Len(t, warnings, 1)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As(warnings[0], &cw))
}

func TestLasso_Errors(t *testing.T) {
	X, y := syntheticRegression(10, 2, 0, 1)

	var ve *errors.ValidationError
	assert.True(t, errors.As(NewLasso(WithAlpha(-1)).Fit(X, y), &ve))
	assert.True(t, errors.As(NewLasso(WithMaxIter(0)).Fit(X, y), &ve))

	_, err := NewLasso().Predict(X)
	assert.Error(t, err)
}
