package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// LogLossEpsilon は対数損失で確率をクリップする幅
const LogLossEpsilon = 1e-15

func checkBinaryLabels(op string, yTrue *mat.VecDense) error {
	for i := 0; i < yTrue.Len(); i++ {
		if v := yTrue.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// BinaryLogLoss は二値の対数損失 -mean(y log p + (1-y) log(1-p)) を計算する
// p は [ε, 1-ε] にクリップされる
func BinaryLogLoss(yTrue, yProba *mat.VecDense) (float64, error) {
	if err := checkPair("BinaryLogLoss", yTrue, yProba); err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	var sum float64
	for i := 0; i < n; i++ {
		p := errors.ClipValue(yProba.AtVec(i), LogLossEpsilon, 1-LogLossEpsilon)
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// Accuracy はラベルが完全一致する割合
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkPair("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(yTrue.Len()), nil
}

// ClassificationError は 1 - Accuracy
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// Threshold は確率を 0/1 ラベルに変換する（p >= threshold で1）
func Threshold(yProba *mat.VecDense, threshold float64) *mat.VecDense {
	out := mat.NewVecDense(yProba.Len(), nil)
	for i := 0; i < yProba.Len(); i++ {
		if yProba.AtVec(i) >= threshold {
			out.SetVec(i, 1)
		}
	}
	return out
}

// AUC はROC曲線下面積を Mann-Whitney の順位統計量として計算する
// 同点のスコアには平均順位を与える。片方のクラスしかない場合は DegenerateScoreError
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	if err := checkPair("AUC", yTrue, yScore); err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("AUC", yTrue); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) < yScore.AtVec(order[b])
	})

	var nPos, nNeg int
	var rankSum float64
	for start := 0; start < n; {
		end := start + 1
		for end < n && yScore.AtVec(order[end]) == yScore.AtVec(order[start]) {
			end++
		}
		// 順位は1始まり、同点グループには平均順位
		avgRank := float64(start+end+1) / 2
		for _, idx := range order[start:end] {
			if yTrue.AtVec(idx) == 1 {
				nPos++
				rankSum += avgRank
			} else {
				nNeg++
			}
		}
		start = end
	}

	if nPos == 0 || nNeg == 0 {
		return 0, errors.NewDegenerateScoreError("AUC", "only one class present in labels")
	}
	u := rankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}
