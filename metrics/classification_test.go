package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func vec(v ...float64) *mat.VecDense {
	if len(v) == 0 {
		return nil
	}
	return mat.NewVecDense(len(v), v)
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name       string
		yTrue      *mat.VecDense
		yScore     *mat.VecDense
		want       float64
		wantErr    bool
		degenerate bool
	}{
		{name: "perfect ranking", yTrue: vec(0, 0, 0, 1, 1, 1), yScore: vec(0.1, 0.2, 0.3, 0.7, 0.8, 0.9), want: 1},
		{name: "reversed ranking", yTrue: vec(0, 0, 0, 1, 1, 1), yScore: vec(0.9, 0.8, 0.7, 0.3, 0.2, 0.1), want: 0},
		{name: "all tied", yTrue: vec(0, 1, 0, 1), yScore: vec(0.5, 0.5, 0.5, 0.5), want: 0.5},
		{name: "one discordant pair", yTrue: vec(0, 0, 1, 1), yScore: vec(0.1, 0.4, 0.35, 0.8), want: 0.75},
		{name: "single class", yTrue: vec(1, 1, 1), yScore: vec(0.1, 0.4, 0.8), wantErr: true, degenerate: true},
		{name: "non-binary labels", yTrue: vec(0, 0.5, 1), yScore: vec(0.1, 0.5, 0.9), wantErr: true},
		{name: "length mismatch", yTrue: vec(0, 1), yScore: vec(0.5), wantErr: true},
		{name: "nil vectors", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.yTrue, tt.yScore)
			if tt.wantErr {
				require.Error(t, err)
				var de *errors.DegenerateScoreError
				assert.Equal(t, tt.degenerate, errors.As(err, &de))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBinaryLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yProba  *mat.VecDense
		want    float64
		wantErr bool
	}{
		{name: "certain and correct", yTrue: vec(0, 0, 1, 1), yProba: vec(0, 0, 1, 1), want: 0},
		{name: "confident", yTrue: vec(0, 0, 1, 1), yProba: vec(0.1, 0.2, 0.8, 0.9), want: 0.164252},
		{name: "confidently wrong", yTrue: vec(0, 0, 1, 1), yProba: vec(0.9, 0.9, 0.1, 0.1), want: 2.302585},
		{name: "certain and wrong is clipped", yTrue: vec(1), yProba: vec(0), want: 34.538776},
		{name: "non-binary labels", yTrue: vec(0, 0.5, 1), yProba: vec(0.1, 0.5, 0.9), wantErr: true},
		{name: "nil vectors", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryLogLoss(tt.yTrue, tt.yProba)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-5)
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"all correct", vec(0, 1, 2, 1, 0), vec(0, 1, 2, 1, 0), 1},
		{"one miss", vec(0, 1, 2, 1, 0), vec(0, 1, 1, 1, 0), 0.8},
		{"all wrong", vec(0, 0, 0), vec(1, 1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accuracy(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, acc, 1e-12)

			e, err := ClassificationError(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, 1-tt.want, e, 1e-12)
		})
	}

	_, err := Accuracy(vec(0, 1), vec(0))
	assert.Error(t, err)
}

func TestThreshold(t *testing.T) {
	got := Threshold(vec(0.1, 0.5, 0.49, 0.9), 0.5)
	assert.Equal(t, []float64{0, 1, 0, 1}, got.RawVector().Data)
}

func BenchmarkAUC(b *testing.B) {
	n := 1000
	yTrue := mat.NewVecDense(n, nil)
	yScore := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if i >= n/2 {
			yTrue.SetVec(i, 1)
		}
		yScore.SetVec(i, float64((i*7919)%n)/float64(n))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AUC(yTrue, yScore)
	}
}
