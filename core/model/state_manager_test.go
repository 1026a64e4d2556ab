package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("Ridge", "Predict")
	var nfe *errors.NotFittedError
	assert.True(t, errors.As(err, &nfe))

	s.SetFitted(3, 100)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("Ridge", "Predict"))

	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 100, ns)

	assert.NoError(t, s.RequireFeatures("Ridge.Predict", 3))
	var de *errors.DimensionError
	assert.True(t, errors.As(s.RequireFeatures("Ridge.Predict", 2), &de))

	s.Reset()
	assert.False(t, s.IsFitted())
}
