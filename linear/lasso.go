package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Lasso is L1-penalised least squares on standardised features:
//
//	minimise 1/(2n)‖y - ȳ - Zβ‖² + α‖β‖₁
//
// fitted by cyclic coordinate descent with soft thresholding.
type Lasso struct {
	state *model.StateManager

	Alpha   float64
	MaxIter int
	Tol     float64

	Weights   *mat.VecDense
	Intercept float64
	// NIter is the number of full sweeps the last Fit used.
	NIter int
}

// NewLasso creates a Lasso model. WithAlpha, WithMaxIter and WithTol apply.
func NewLasso(opts ...Option) *Lasso {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Lasso{
		state:   model.NewStateManager(),
		Alpha:   o.alpha,
		MaxIter: o.maxIter,
		Tol:     o.tol,
	}
}

// IsFitted reports whether Fit has succeeded.
func (m *Lasso) IsFitted() bool { return m.state.IsFitted() }

// Fit estimates the coefficients. Running out of iterations is reported
// through errors.Warn and is not an error.
func (m *Lasso) Fit(X, y mat.Matrix) error {
	if m.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", m.Alpha)
	}
	if m.MaxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", m.MaxIter)
	}
	r, c, err := checkFitInput("Lasso.Fit", X, y)
	if err != nil {
		return err
	}

	std, err := standardize(X)
	if err != nil {
		return err
	}
	yv := columnVector(y)
	yMean := mean(yv)

	// residual = y - ȳ - Zβ, starting from β = 0
	residual := make([]float64, r)
	for i := range residual {
		residual[i] = yv.AtVec(i) - yMean
	}

	// colNorm[j] = (1/n) Σ z_ij²; zero for constant columns
	colNorm := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			z := std.Z.At(i, j)
			colNorm[j] += z * z
		}
		colNorm[j] /= float64(r)
	}

	n := float64(r)
	beta := make([]float64, c)
	converged := false
	iter := 0
	for iter < m.MaxIter && !converged {
		iter++
		maxDelta := 0.0
		for j := 0; j < c; j++ {
			if colNorm[j] == 0 {
				continue
			}
			old := beta[j]

			rho := 0.0
			for i := 0; i < r; i++ {
				rho += std.Z.At(i, j) * residual[i]
			}
			rho = rho/n + colNorm[j]*old

			beta[j] = softThreshold(rho, m.Alpha) / colNorm[j]

			if delta := beta[j] - old; delta != 0 {
				for i := 0; i < r; i++ {
					residual[i] -= std.Z.At(i, j) * delta
				}
				maxDelta = math.Max(maxDelta, math.Abs(delta))
			}
		}
		converged = maxDelta < m.Tol
	}

	if err := errors.CheckNumericalStability("Lasso.Fit", beta, iter); err != nil {
		return err
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Lasso", iter,
			fmt.Sprintf("coordinate descent did not reach tol=%g", m.Tol)))
	}

	m.NIter = iter
	m.Weights, m.Intercept = std.unscale(mat.NewVecDense(c, beta), yMean)
	m.state.SetFitted(c, r)
	return nil
}

func softThreshold(x, lambda float64) float64 {
	switch {
	case x > lambda:
		return x - lambda
	case x < -lambda:
		return x + lambda
	default:
		return 0
	}
}

// Predict returns X·w + b as an n×1 matrix.
func (m *Lasso) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("Lasso", "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := m.state.RequireFeatures("Lasso.Predict", c); err != nil {
		return nil, err
	}
	return affine(X, m.Weights, m.Intercept), nil
}

// Score returns R² on (X, y).
func (m *Lasso) Score(X, y mat.Matrix) (float64, error) {
	return r2(m, "Lasso", X, y)
}

// GetParams implements model.ParameterGetter.
func (m *Lasso) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":    m.Alpha,
		"max_iter": m.MaxIter,
		"tol":      m.Tol,
	}
}

func (m *Lasso) String() string {
	return fmt.Sprintf("Lasso(alpha=%g, max_iter=%d)", m.Alpha, m.MaxIter)
}
