package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// OneHotEncoder はカテゴリカルな文字列データを0/1の指示変数に変換する
//
// DropFirst が true の場合、各特徴量の最初の（ソート順で最小の）カテゴリを基準水準として
// 列を作らない。切片を持つ線形モデルで列が線形従属になるのを避けるため。
type OneHotEncoder struct {
	state *model.StateManager

	// Categories は各特徴量のカテゴリ一覧（ソート済み）
	Categories [][]string

	// DropFirst は基準水準の列を落とすかどうか
	DropFirst bool

	categoryToIdx []map[string]int
	nOutputs      int
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder(dropFirst bool) *OneHotEncoder {
	return &OneHotEncoder{
		state:     model.NewStateManager(),
		DropFirst: dropFirst,
	}
}

// Fit は訓練データ (n_samples × n_features) からカテゴリ情報を学習する
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer errors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 || len(data[0]) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	nFeatures := len(data[0])
	for i, row := range data {
		if len(row) != nFeatures {
			return errors.NewDimensionError(fmt.Sprintf("OneHotEncoder.Fit(row %d)", i), nFeatures, len(row), 1)
		}
	}

	levels := make([][]string, nFeatures)
	for j := 0; j < nFeatures; j++ {
		set := make(map[string]struct{})
		for _, row := range data {
			set[row[j]] = struct{}{}
		}
		categories := make([]string, 0, len(set))
		for category := range set {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		levels[j] = categories
	}

	e.setCategories(levels)
	e.state.SetFitted(nFeatures, len(data))
	return nil
}

// FitCategories は既知のカテゴリ一覧から直接学習済み状態にする
func (e *OneHotEncoder) FitCategories(categories [][]string) error {
	if len(categories) == 0 {
		return errors.NewModelError("OneHotEncoder.FitCategories", "empty data", errors.ErrEmptyData)
	}
	levels := make([][]string, len(categories))
	for j, cats := range categories {
		if len(cats) == 0 {
			return errors.NewValueError("OneHotEncoder.FitCategories", fmt.Sprintf("feature %d has no categories", j))
		}
		levels[j] = append([]string(nil), cats...)
		sort.Strings(levels[j])
	}
	e.setCategories(levels)
	e.state.SetFitted(len(levels), 0)
	return nil
}

func (e *OneHotEncoder) setCategories(levels [][]string) {
	e.Categories = levels
	e.categoryToIdx = make([]map[string]int, len(levels))
	e.nOutputs = 0
	for j, categories := range levels {
		idx := make(map[string]int, len(categories))
		for i, category := range categories {
			idx[category] = i
		}
		e.categoryToIdx[j] = idx
		e.nOutputs += e.width(j)
	}
}

func (e *OneHotEncoder) width(j int) int {
	if e.DropFirst {
		return len(e.Categories[j]) - 1
	}
	return len(e.Categories[j])
}

// NOutputs は出力列数を返す
func (e *OneHotEncoder) NOutputs() int {
	return e.nOutputs
}

// Transform はデータをone-hot encodingする。未知カテゴリはエラー
func (e *OneHotEncoder) Transform(data [][]string) (mat.Matrix, error) {
	if err := e.state.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	if e.nOutputs == 0 {
		return nil, errors.NewValueError("OneHotEncoder.Transform", "every feature has a single category")
	}

	result := mat.NewDense(len(data), e.nOutputs, nil)
	if err := e.TransformInto(data, result, 0); err != nil {
		return nil, err
	}
	return result, nil
}

// TransformInto writes the encoding of data into dst starting at column
// offset. dst must have len(data) rows and at least offset+NOutputs() columns.
func (e *OneHotEncoder) TransformInto(data [][]string, dst *mat.Dense, offset int) error {
	if err := e.state.RequireFitted("OneHotEncoder", "TransformInto"); err != nil {
		return err
	}
	r, c := dst.Dims()
	if r != len(data) {
		return errors.NewDimensionError("OneHotEncoder.TransformInto", len(data), r, 0)
	}
	if c < offset+e.nOutputs {
		return errors.NewDimensionError("OneHotEncoder.TransformInto", offset+e.nOutputs, c, 1)
	}

	for i, row := range data {
		if err := e.state.RequireFeatures("OneHotEncoder.TransformInto", len(row)); err != nil {
			return err
		}
		col := offset
		for j, category := range row {
			idx, ok := e.categoryToIdx[j][category]
			if !ok {
				return errors.NewValueError("OneHotEncoder.TransformInto",
					fmt.Sprintf("unknown category %q for feature %d", category, j))
			}
			if e.DropFirst {
				idx--
			}
			if idx >= 0 {
				dst.Set(i, col+idx, 1.0)
			}
			col += e.width(j)
		}
	}
	return nil
}

// GetFeatureNamesOut は変換後の特徴量の名前を返す（例: "region[north]"）
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.state.IsFitted() {
		return nil
	}

	var out []string
	for j, categories := range e.Categories {
		name := fmt.Sprintf("x%d", j)
		if j < len(inputFeatures) {
			name = inputFeatures[j]
		}
		start := 0
		if e.DropFirst {
			start = 1
		}
		for _, category := range categories[start:] {
			out = append(out, fmt.Sprintf("%s[%s]", name, category))
		}
	}
	return out
}
