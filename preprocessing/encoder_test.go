package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOneHotEncoder_Fit(t *testing.T) {
	data := [][]string{
		{"north", "small"},
		{"south", "large"},
		{"east", "small"},
	}

	enc := NewOneHotEncoder(false)
	require.NoError(t, enc.Fit(data))
	assert.Equal(t, []string{"east", "north", "south"}, enc.Categories[0])
	assert.Equal(t, []string{"large", "small"}, enc.Categories[1])
	assert.Equal(t, 5, enc.NOutputs())

	out, err := enc.Transform(data)
	require.NoError(t, err)
	want := mat.NewDense(3, 5, []float64{
		0, 1, 0, 0, 1,
		0, 0, 1, 1, 0,
		1, 0, 0, 0, 1,
	})
	assert.True(t, mat.Equal(want, out))
}

func TestOneHotEncoder_DropFirst(t *testing.T) {
	enc := NewOneHotEncoder(true)
	require.NoError(t, enc.FitCategories([][]string{{"b", "a", "c"}}))
	assert.Equal(t, 2, enc.NOutputs())
	assert.Equal(t, []string{"region[b]", "region[c]"}, enc.GetFeatureNamesOut([]string{"region"}))

	out, err := enc.Transform([][]string{{"a"}, {"b"}, {"c"}})
	require.NoError(t, err)
	want := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
	})
	assert.True(t, mat.Equal(want, out))
}

func TestOneHotEncoder_TransformIntoOffset(t *testing.T) {
	enc := NewOneHotEncoder(true)
	require.NoError(t, enc.FitCategories([][]string{{"x", "y"}}))

	dst := mat.NewDense(2, 3, nil)
	require.NoError(t, enc.TransformInto([][]string{{"y"}, {"x"}}, dst, 2))
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 0}, dst.RawMatrix().Data)
}

func TestOneHotEncoder_Errors(t *testing.T) {
	enc := NewOneHotEncoder(false)

	_, err := enc.Transform([][]string{{"a"}})
	assert.Error(t, err, "transform before fit")

	assert.Error(t, enc.Fit(nil))
	assert.Error(t, enc.Fit([][]string{{"a", "b"}, {"c"}}))

	require.NoError(t, enc.Fit([][]string{{"a"}, {"b"}}))
	_, err = enc.Transform([][]string{{"z"}})
	assert.ErrorContains(t, err, "unknown category")
	assert.Nil(t, NewOneHotEncoder(false).GetFeatureNamesOut(nil))
}
