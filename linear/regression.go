// Package linear は線形モデル（最小二乗、Ridge、Lasso、ロジスティック回帰）を提供する
//
// すべてのモデルは model.Estimator を満たし、learner.go のアダプタを通じて
// tune.Learner としてグリッドサーチに渡せる。
package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/core/parallel"
	"github.com/YuminosukeSato/cvgrid/metrics"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// parallelThreshold はこの行数以下では逐次処理を使う
const parallelThreshold = 1000

// LinearRegression は正規方程式で解く最小二乗回帰
type LinearRegression struct {
	state *model.StateManager

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{state: model.NewStateManager()}
}

// IsFitted は学習済みかどうかを返す
func (lr *LinearRegression) IsFitted() bool { return lr.state.IsFitted() }

// Fit はモデルを訓練データで学習させる
// 正規方程式 (XᵀX) w = Xᵀy を切片列を加えた X について解く
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c, err := checkFitInput("LinearRegression.Fit", X, y)
	if err != nil {
		return err
	}

	// X_with_intercept = [1, X]
	XWithIntercept := withInterceptColumn(X)

	var XTX mat.Dense
	XTX.Mul(XWithIntercept.T(), XWithIntercept)

	var XTy mat.VecDense
	XTy.MulVec(XWithIntercept.T(), columnVector(y))

	var weights mat.VecDense
	if err := weights.SolveVec(&XTX, &XTy); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", weights.RawVector().Data, 0); err != nil {
		return err
	}

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.VecDenseCopyOf(weights.SliceVec(1, c+1))
	lr.state.SetFitted(c, r)
	return nil
}

// Predict は y = X·w + b を n×1 行列で返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", c); err != nil {
		return nil, err
	}
	return affine(X, lr.Weights, lr.Intercept), nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	return r2(lr, "LinearRegression", X, y)
}

// GetParams はハイパーパラメータを返す（最小二乗にはない）
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (lr *LinearRegression) String() string {
	return fmt.Sprintf("LinearRegression(fitted=%t)", lr.IsFitted())
}

// checkFitInput は Fit の入力形状を検証する
func checkFitInput(op string, X, y mat.Matrix) (r, c int, err error) {
	r, c = X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return 0, 0, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	return r, c, nil
}

// withInterceptColumn は先頭に1の列を加えた行列を作る
func withInterceptColumn(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}

func columnVector(y mat.Matrix) *mat.VecDense {
	r, _ := y.Dims()
	return mat.NewVecDense(r, mat.Col(nil, 0, y))
}

// affine は X·w + b を n×1 行列で返す
func affine(X mat.Matrix, w *mat.VecDense, b float64) *mat.Dense {
	r, _ := X.Dims()
	var out mat.VecDense
	out.MulVec(X, w)
	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred.Set(i, 0, out.AtVec(i)+b)
	}
	return pred
}

func r2(p model.Predictor, name string, X, y mat.Matrix) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, errors.Wrapf(err, "%s.Score", name)
	}
	return metrics.R2Score(columnVector(y), columnVector(pred))
}
