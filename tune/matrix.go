package tune

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ScoreMatrix holds one score per (replicate, grid point).
type ScoreMatrix struct {
	data *mat.Dense
}

func newScoreMatrix(replicates, points int) *ScoreMatrix {
	return &ScoreMatrix{data: mat.NewDense(replicates, points, nil)}
}

// Dims returns (replicates, points).
func (s *ScoreMatrix) Dims() (replicates, points int) {
	return s.data.Dims()
}

// At returns the score of point p in replicate r.
func (s *ScoreMatrix) At(r, p int) float64 {
	return s.data.At(r, p)
}

func (s *ScoreMatrix) set(r, p int, v float64) {
	s.data.Set(r, p, v)
}

// Column returns the per-replicate scores of point p.
func (s *ScoreMatrix) Column(p int) []float64 {
	return mat.Col(nil, p, s.data)
}

// Row returns the scores of every point in replicate r.
func (s *ScoreMatrix) Row(r int) []float64 {
	return mat.Row(nil, r, s.data)
}

// Mean is the average score of point p across replicates.
func (s *ScoreMatrix) Mean(p int) float64 {
	return stat.Mean(s.Column(p), nil)
}

// Std is the sample standard deviation of point p across replicates. It is
// zero with a single replicate.
func (s *ScoreMatrix) Std(p int) float64 {
	col := s.Column(p)
	if len(col) < 2 {
		return 0
	}
	return stat.StdDev(col, nil)
}

// Means returns Mean for every point.
func (s *ScoreMatrix) Means() []float64 {
	_, points := s.Dims()
	out := make([]float64, points)
	for p := range out {
		out[p] = s.Mean(p)
	}
	return out
}
