package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Ridge is L2-penalised least squares on standardised features:
//
//	minimise ‖y - ȳ - Zβ‖² + α‖β‖²
//
// solved in closed form with a Cholesky factorisation of ZᵀZ + αI.
// Coefficients are reported on the original feature scale.
type Ridge struct {
	state *model.StateManager

	Alpha float64

	Weights   *mat.VecDense
	Intercept float64
}

// NewRidge creates a Ridge model. Only WithAlpha applies.
func NewRidge(opts ...Option) *Ridge {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Ridge{state: model.NewStateManager(), Alpha: o.alpha}
}

// IsFitted reports whether Fit has succeeded.
func (m *Ridge) IsFitted() bool { return m.state.IsFitted() }

// Fit estimates the coefficients.
func (m *Ridge) Fit(X, y mat.Matrix) error {
	if m.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", m.Alpha)
	}
	r, c, err := checkFitInput("Ridge.Fit", X, y)
	if err != nil {
		return err
	}

	std, err := standardize(X)
	if err != nil {
		return err
	}
	yv := columnVector(y)
	yMean := mean(yv)
	yc := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yc.SetVec(i, yv.AtVec(i)-yMean)
	}

	gram := mat.NewSymDense(c, nil)
	gram.SymOuterK(1, std.Z.T())
	for j := 0; j < c; j++ {
		gram.SetSym(j, j, gram.At(j, j)+m.Alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(std.Z.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("Ridge.Fit", beta.RawVector().Data, 0); err != nil {
		return err
	}

	m.Weights, m.Intercept = std.unscale(&beta, yMean)
	m.state.SetFitted(c, r)
	return nil
}

// Predict returns X·w + b as an n×1 matrix.
func (m *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("Ridge", "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := m.state.RequireFeatures("Ridge.Predict", c); err != nil {
		return nil, err
	}
	return affine(X, m.Weights, m.Intercept), nil
}

// Score returns R² on (X, y).
func (m *Ridge) Score(X, y mat.Matrix) (float64, error) {
	return r2(m, "Ridge", X, y)
}

// GetParams implements model.ParameterGetter.
func (m *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{"alpha": m.Alpha}
}

func (m *Ridge) String() string {
	return fmt.Sprintf("Ridge(alpha=%g)", m.Alpha)
}
