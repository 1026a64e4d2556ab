package tune

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/metrics"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Direction says whether larger or smaller scores are better.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

func (d Direction) String() string {
	if d == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Better reports whether a is strictly better than b.
func (d Direction) Better(a, b float64) bool {
	if d == Minimize {
		return a < b
	}
	return a > b
}

// Scorer turns a pooled prediction vector into one replicate score.
type Scorer interface {
	Name() string
	Direction() Direction
	Supports(kind dataset.OutcomeKind) bool
	Score(y, yhat []float64) (float64, error)
}

type scorer struct {
	name      string
	direction Direction
	kind      dataset.OutcomeKind
	fn        func(y, yhat *mat.VecDense) (float64, error)
}

func (s scorer) Name() string { return s.name }
func (s scorer) Direction() Direction { return s.direction }
func (s scorer) Supports(kind dataset.OutcomeKind) bool { return kind == s.kind }
func (s scorer) String() string { return s.name }

func (s scorer) Score(y, yhat []float64) (float64, error) {
	if len(y) == 0 {
		return 0, errors.NewValueError(s.name, "empty vector")
	}
	if len(y) != len(yhat) {
		return 0, errors.NewDimensionError(s.name, len(y), len(yhat), 0)
	}
	return s.fn(mat.NewVecDense(len(y), y), mat.NewVecDense(len(yhat), yhat))
}

// R2 is the pooled coefficient of determination 1 - SSE/SST. A constant
// outcome makes it undefined and yields a DegenerateScoreError.
func R2() Scorer {
	return scorer{name: "r2", direction: Maximize, kind: dataset.Continuous, fn: metrics.R2Score}
}

// MSE is the pooled mean squared error.
func MSE() Scorer {
	return scorer{name: "mse", direction: Minimize, kind: dataset.Continuous, fn: metrics.MSE}
}

// RMSE is the square root of MSE.
func RMSE() Scorer {
	return scorer{name: "rmse", direction: Minimize, kind: dataset.Continuous, fn: metrics.RMSE}
}

// MAE is the pooled mean absolute error.
func MAE() Scorer {
	return scorer{name: "mae", direction: Minimize, kind: dataset.Continuous, fn: metrics.MAE}
}

// LogLoss is binary cross-entropy on predicted probabilities, clipped to
// [1e-15, 1-1e-15].
func LogLoss() Scorer {
	return scorer{name: "logloss", direction: Minimize, kind: dataset.Binary, fn: metrics.BinaryLogLoss}
}

// Accuracy thresholds probabilities at 0.5.
func Accuracy() Scorer {
	return scorer{name: "accuracy", direction: Maximize, kind: dataset.Binary,
		fn: func(y, p *mat.VecDense) (float64, error) {
			return metrics.Accuracy(y, metrics.Threshold(p, 0.5))
		},
	}
}

// ClassificationError is 1 - Accuracy, with probabilities thresholded at 0.5.
func ClassificationError() Scorer {
	return scorer{name: "error", direction: Minimize, kind: dataset.Binary,
		fn: func(y, p *mat.VecDense) (float64, error) {
			return metrics.ClassificationError(y, metrics.Threshold(p, 0.5))
		},
	}
}

// AUC is the area under the ROC curve of the predicted probabilities.
func AUC() Scorer {
	return scorer{name: "auc", direction: Maximize, kind: dataset.Binary, fn: metrics.AUC}
}

// DefaultScorer is R2 for Continuous outcomes and LogLoss for Binary ones.
func DefaultScorer(kind dataset.OutcomeKind) Scorer {
	if kind == dataset.Binary {
		return LogLoss()
	}
	return R2()
}

var scorers = map[string]func() Scorer{
	"r2":       R2,
	"mse":      MSE,
	"rmse":     RMSE,
	"mae":      MAE,
	"logloss":  LogLoss,
	"accuracy": Accuracy,
	"error":    ClassificationError,
	"auc":      AUC,
}

// ScorerByName returns the scorer registered under name (case-insensitive).
func ScorerByName(name string) (Scorer, error) {
	f, ok := scorers[strings.ToLower(name)]
	if !ok {
		return nil, errors.NewValidationError("metric", "unknown scorer", name)
	}
	return f(), nil
}
