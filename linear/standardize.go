package linear

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/cvgrid/preprocessing"
)

// standardized は標準化済みの計画行列と、元のスケールへ戻すための情報を持つ
type standardized struct {
	Z      *mat.Dense
	scaler *preprocessing.StandardScaler
}

func standardize(X mat.Matrix) (*standardized, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	Z, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}
	return &standardized{Z: mat.DenseCopyOf(Z), scaler: scaler}, nil
}

// unscale は標準化空間の係数 beta と切片 b0 を元の特徴量空間に戻す
//
//	w_j = beta_j / scale_j,  b = b0 - Σ w_j mean_j
func (s *standardized) unscale(beta *mat.VecDense, b0 float64) (*mat.VecDense, float64) {
	w := mat.NewVecDense(beta.Len(), nil)
	b := b0
	for j := 0; j < beta.Len(); j++ {
		w.SetVec(j, beta.AtVec(j)/s.scaler.Scale[j])
		b -= w.AtVec(j) * s.scaler.Mean[j]
	}
	return w, b
}

func mean(y *mat.VecDense) float64 {
	return stat.Mean(mat.Col(nil, 0, y), nil)
}
