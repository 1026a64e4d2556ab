package linear

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// syntheticRegression returns X (rows×cols, uniform in [-1, 1)) and
// y = 1 + Σ 0.5(j+1)·x_j + noise·U(-0.5, 0.5).
func syntheticRegression(rows, cols int, noise float64, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			x := rng.Float64()*2 - 1
			X.Set(i, j, x)
			sum += x * float64(j+1) * 0.5
		}
		y.Set(i, 0, sum+(rng.Float64()-0.5)*noise)
	}
	return X, y
}

// syntheticBinary returns X and 0/1 labels drawn from a logistic model with
// weights (2, -1) and intercept 0.5.
func syntheticBinary(rows int, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(rows, 2, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		x0 := rng.NormFloat64()
		x1 := rng.NormFloat64()
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		if rng.Float64() < sigmoid(0.5+2*x0-x1) {
			y.Set(i, 0, 1)
		}
	}
	return X, y
}
