package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/pkg/log"
	"github.com/YuminosukeSato/cvgrid/tune"
)

func tuned(t *testing.T) *tune.Result {
	t.Helper()
	records := make([]dataset.Record, 24)
	for i := range records {
		x := float64(i)
		records[i] = dataset.Record{
			Values:  map[string]dataset.Value{"x": dataset.Num(x)},
			Outcome: 3*x - 2,
		}
	}
	ds, err := dataset.New(records, []string{"x"}, dataset.Continuous)
	require.NoError(t, err)

	learner := tune.LearnerFunc(func(_ *dataset.Dataset, p tune.Point) (tune.Fitted, error) {
		slope := p.Get("slope", 0)
		return tune.FittedFunc(func(h *dataset.Dataset) ([]float64, error) {
			out := make([]float64, h.Len())
			for i := range out {
				out[i] = slope*h.Record(i).Values["x"].Float() - 2
			}
			return out, nil
		}), nil
	})

	logger, _ := log.NewTestLogger(log.LevelError)
	res, err := tune.Tune(context.Background(), ds,
		tune.Grid{{Name: "slope", Values: []float64{1, 3, 4}}}, learner,
		tune.WithFolds(3), tune.WithReplicates(2), tune.WithLogger(logger))
	require.NoError(t, err)
	return res
}

func TestSummary(t *testing.T) {
	res := tuned(t)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "metric: r2 (maximize), folds: 3, replicates: 2")
	assert.Contains(t, out, "best: slope=3 (r2 = 1.000000)")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[3], "*"), "best row is marked: %q", lines[3])
	assert.False(t, strings.HasPrefix(lines[2], "*"))
}

func TestNewScorePlot(t *testing.T) {
	res := tuned(t)

	p, err := NewScorePlot(res, PlotOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Cross-validated r2 by grid point", p.Title.Text)

	_, err = NewScorePlot(nil, PlotOptions{})
	assert.Error(t, err)
}

func TestPlotScores(t *testing.T) {
	res := tuned(t)
	dir := t.TempDir()

	for _, name := range []string{"scores.png", "scores.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, PlotScores(res, path, PlotOptions{Title: "slope search"}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Error(t, PlotScores(res, filepath.Join(dir, "scores.unknown"), PlotOptions{}))
}
