package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Logistic is binary L2-regularised logistic regression. It minimises
//
//	(1/n) Σ [log(1 + e^η) - y·η] + 1/(2C)‖w‖²,  η = b + Zw
//
// on standardised features by Newton's method (IRLS) with a backtracking
// step. The intercept is not penalised.
type Logistic struct {
	state *model.StateManager

	C       float64
	MaxIter int
	Tol     float64

	Weights   *mat.VecDense
	Intercept float64
	NIter     int
}

// NewLogistic creates a Logistic model. WithC, WithMaxIter and WithTol apply.
func NewLogistic(opts ...Option) *Logistic {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Logistic{
		state:   model.NewStateManager(),
		C:       o.c,
		MaxIter: o.maxIter,
		Tol:     o.tol,
	}
}

// IsFitted reports whether Fit has succeeded.
func (m *Logistic) IsFitted() bool { return m.state.IsFitted() }

// Fit estimates the coefficients from 0/1 labels.
func (m *Logistic) Fit(X, y mat.Matrix) error {
	if m.C <= 0 || math.IsInf(m.C, 0) || math.IsNaN(m.C) {
		return errors.NewValidationError("c", "must be positive and finite", m.C)
	}
	if m.MaxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", m.MaxIter)
	}
	r, c, err := checkFitInput("Logistic.Fit", X, y)
	if err != nil {
		return err
	}
	yv := columnVector(y)
	for i := 0; i < r; i++ {
		if v := yv.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError("Logistic.Fit", "labels must be 0 or 1")
		}
	}

	std, err := standardize(X)
	if err != nil {
		return err
	}
	Za := withInterceptColumn(std.Z)

	lambda := 1 / m.C
	n := float64(r)
	theta := mat.NewVecDense(c+1, nil)

	objective := func(th *mat.VecDense) float64 {
		var eta mat.VecDense
		eta.MulVec(Za, th)
		loss := 0.0
		for i := 0; i < r; i++ {
			e := eta.AtVec(i)
			loss += softplus(e) - yv.AtVec(i)*e
		}
		penalty := 0.0
		for j := 1; j <= c; j++ {
			penalty += th.AtVec(j) * th.AtVec(j)
		}
		return loss/n + lambda/2*penalty
	}

	converged := false
	iter := 0
	current := objective(theta)
	for iter < m.MaxIter && !converged {
		iter++

		var eta mat.VecDense
		eta.MulVec(Za, theta)

		resid := mat.NewVecDense(r, nil)
		weighted := mat.NewDense(r, c+1, nil)
		for i := 0; i < r; i++ {
			p := sigmoid(eta.AtVec(i))
			resid.SetVec(i, p-yv.AtVec(i))
			w := p * (1 - p)
			for j := 0; j <= c; j++ {
				weighted.Set(i, j, w*Za.At(i, j))
			}
		}

		var grad mat.VecDense
		grad.MulVec(Za.T(), resid)
		grad.ScaleVec(1/n, &grad)

		var hess mat.Dense
		hess.Mul(Za.T(), weighted)
		hess.Scale(1/n, &hess)

		hSym := mat.NewSymDense(c+1, nil)
		for a := 0; a <= c; a++ {
			for b := a; b <= c; b++ {
				hSym.SetSym(a, b, hess.At(a, b))
			}
			hSym.SetSym(a, a, hSym.At(a, a)+1e-10)
			if a > 0 {
				grad.SetVec(a, grad.AtVec(a)+lambda*theta.AtVec(a))
				hSym.SetSym(a, a, hSym.At(a, a)+lambda)
			}
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(hSym); !ok {
			return errors.NewModelError("Logistic.Fit", "singular Hessian", errors.ErrSingularMatrix)
		}
		var step mat.VecDense
		if err := chol.SolveVecTo(&step, &grad); err != nil {
			return errors.NewModelError("Logistic.Fit", "singular Hessian", errors.ErrSingularMatrix)
		}

		next, obj, ok := backtrack(objective, theta, &step, current)
		if !ok {
			// no step along the Newton direction lowers the objective
			converged = true
			break
		}
		current = obj

		maxDelta := 0.0
		for j := 0; j <= c; j++ {
			maxDelta = math.Max(maxDelta, math.Abs(next.AtVec(j)-theta.AtVec(j)))
		}
		theta.CopyVec(next)
		converged = maxDelta < m.Tol
	}

	if err := errors.CheckNumericalStability("Logistic.Fit", theta.RawVector().Data, iter); err != nil {
		return err
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Logistic", iter,
			fmt.Sprintf("Newton iterations did not reach tol=%g", m.Tol)))
	}

	m.NIter = iter
	beta := mat.VecDenseCopyOf(theta.SliceVec(1, c+1))
	m.Weights, m.Intercept = std.unscale(beta, theta.AtVec(0))
	m.state.SetFitted(c, r)
	return nil
}

// backtrack halves the step until theta - t*step does not raise the
// objective above current. ok is false when t drops below 1e-8 first, and
// theta should then be kept.
func backtrack(objective func(*mat.VecDense) float64, theta, step *mat.VecDense, current float64) (next *mat.VecDense, obj float64, ok bool) {
	next = mat.NewVecDense(theta.Len(), nil)
	for t := 1.0; t >= 1e-8; t /= 2 {
		next.AddScaledVec(theta, -t, step)
		if obj = objective(next); obj <= current {
			return next, obj, true
		}
	}
	return nil, current, false
}

// PredictProba returns P(y = 1 | x) as an n×1 matrix.
func (m *Logistic) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("Logistic", "PredictProba"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := m.state.RequireFeatures("Logistic.PredictProba", c); err != nil {
		return nil, err
	}
	eta := affine(X, m.Weights, m.Intercept)
	r, _ := eta.Dims()
	for i := 0; i < r; i++ {
		eta.Set(i, 0, sigmoid(eta.At(i, 0)))
	}
	return eta, nil
}

// Predict returns 0/1 labels with a 0.5 threshold.
func (m *Logistic) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	labels := proba.(*mat.Dense)
	r, _ := labels.Dims()
	for i := 0; i < r; i++ {
		if labels.At(i, 0) >= 0.5 {
			labels.Set(i, 0, 1)
		} else {
			labels.Set(i, 0, 0)
		}
	}
	return labels, nil
}

// GetParams implements model.ParameterGetter.
func (m *Logistic) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"c":        m.C,
		"max_iter": m.MaxIter,
		"tol":      m.Tol,
	}
}

func (m *Logistic) String() string {
	return fmt.Sprintf("Logistic(c=%g, max_iter=%d)", m.C, m.MaxIter)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
