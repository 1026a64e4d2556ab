// Package metrics は回帰と二値分類の評価指標を提供する
//
// すべての関数は gonum のベクトルを受け取り、空入力や長さの不一致をエラーとして返す。
// 交差検証では各フォールドの予測をつなぎ合わせた「プール済み」ベクトルに対して
// 一度だけ指標を計算する（SumOfSquares を参照）。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// SumOfSquares は残差平方和と全変動を逐次的に集計する
//
// 全変動はWelfordの方法で更新するため、平均を先に求める必要がない。
type SumOfSquares struct {
	n    int
	sse  float64
	mean float64
	m2   float64
}

// Add は1組の観測値と予測値を加える
func (s *SumOfSquares) Add(yTrue, yPred float64) {
	s.n++
	diff := yTrue - yPred
	s.sse += diff * diff

	delta := yTrue - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (yTrue - s.mean)
}

// AddVec はベクトルの全要素を加える
func (s *SumOfSquares) AddVec(yTrue, yPred mat.Vector) error {
	if yTrue.Len() != yPred.Len() {
		return errors.NewDimensionError("SumOfSquares.AddVec", yTrue.Len(), yPred.Len(), 0)
	}
	for i := 0; i < yTrue.Len(); i++ {
		s.Add(yTrue.AtVec(i), yPred.AtVec(i))
	}
	return nil
}

// N は集計済みの観測数
func (s *SumOfSquares) N() int { return s.n }

// SSE は残差平方和 Σ(y - ŷ)²
func (s *SumOfSquares) SSE() float64 { return s.sse }

// SST は全変動 Σ(y - ȳ)²
func (s *SumOfSquares) SST() float64 { return s.m2 }

// MSE は平均二乗誤差
func (s *SumOfSquares) MSE() (float64, error) {
	if s.n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	return s.sse / float64(s.n), nil
}

// R2 は 1 - SSE/SST。全変動が0のときは DegenerateScoreError
func (s *SumOfSquares) R2() (float64, error) {
	if s.n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}
	if s.m2 == 0 {
		return 0, errors.NewDegenerateScoreError("R2", "total sum of squares is zero (outcome has no variance)")
	}
	return 1 - s.sse/s.m2, nil
}

func checkPair(op string, yTrue, yPred *mat.VecDense) error {
	if yTrue == nil || yPred == nil {
		return errors.NewValueError(op, "nil vector")
	}
	if yTrue.Len() == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	return nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	d := floats.Distance(values(yTrue), values(yPred), 2)
	return d * d / float64(yTrue.Len()), nil
}

// RMSE は平方根平均二乗誤差
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(values(yTrue), values(yPred), 1) / float64(yTrue.Len()), nil
}

// R2Score は決定係数 R² = 1 - SSE/SST を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}
	var ss SumOfSquares
	if err := ss.AddVec(yTrue, yPred); err != nil {
		return 0, err
	}
	return ss.R2()
}

// values は連続領域のスライスとしてベクトルの要素を返す
func values(v *mat.VecDense) []float64 {
	raw := v.RawVector()
	if raw.Inc == 1 {
		return raw.Data[:v.Len()]
	}
	return mat.Col(nil, 0, v)
}
