package linear

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/model"
	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/tune"
)

// Learner adapts a linear model to tune.Learner. Each Train call builds a
// fresh model from the grid point, so one Learner is safe to share across
// concurrent evaluations.
type Learner struct {
	name  string
	kind  dataset.OutcomeKind
	build func(p tune.Point) model.Estimator
}

// Name implements the optional naming interface the tuning driver logs.
func (l *Learner) Name() string { return l.name }

// Train fits a model on the design matrix of train.
func (l *Learner) Train(train *dataset.Dataset, p tune.Point) (tune.Fitted, error) {
	if train.Kind() != l.kind {
		return nil, errors.NewValueError(l.name+".Train", "outcome kind "+train.Kind().String()+" is not supported")
	}
	X, err := train.Matrix()
	if err != nil {
		return nil, err
	}
	est := l.build(p)
	if err := est.Fit(X, train.OutcomeVector()); err != nil {
		return nil, err
	}
	return &fitted{est: est}, nil
}

type fitted struct {
	est model.Estimator
}

// Predict returns point predictions, or positive-class probabilities for
// probabilistic classifiers.
func (f *fitted) Predict(holdout *dataset.Dataset) ([]float64, error) {
	X, err := holdout.Matrix()
	if err != nil {
		return nil, err
	}
	var pred mat.Matrix
	if clf, ok := f.est.(model.ProbabilisticClassifier); ok {
		pred, err = clf.PredictProba(X)
	} else {
		pred, err = f.est.Predict(X)
	}
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, pred), nil
}

// OLSLearner fits LinearRegression. It takes no hyperparameters.
func OLSLearner() *Learner {
	return &Learner{
		name: "LinearRegression",
		kind: dataset.Continuous,
		build: func(tune.Point) model.Estimator {
			return NewLinearRegression()
		},
	}
}

// RidgeLearner fits Ridge with the grid's "alpha".
func RidgeLearner() *Learner {
	return &Learner{
		name: "Ridge",
		kind: dataset.Continuous,
		build: func(p tune.Point) model.Estimator {
			return NewRidge(WithAlpha(p.Get("alpha", DefaultAlpha)))
		},
	}
}

// LassoLearner fits Lasso with the grid's "alpha", "max_iter" and "tol".
func LassoLearner() *Learner {
	return &Learner{
		name: "Lasso",
		kind: dataset.Continuous,
		build: func(p tune.Point) model.Estimator {
			return NewLasso(
				WithAlpha(p.Get("alpha", DefaultAlpha)),
				WithMaxIter(p.Int("max_iter", DefaultMaxIter)),
				WithTol(p.Get("tol", DefaultTol)),
			)
		},
	}
}

// LogisticLearner fits Logistic with the grid's "c", "max_iter" and "tol".
// Its predictions are probabilities.
func LogisticLearner() *Learner {
	return &Learner{
		name: "Logistic",
		kind: dataset.Binary,
		build: func(p tune.Point) model.Estimator {
			return NewLogistic(
				WithC(p.Get("c", DefaultC)),
				WithMaxIter(p.Int("max_iter", DefaultMaxIter)),
				WithTol(p.Get("tol", DefaultTol)),
			)
		},
	}
}

var learners = map[string]func() *Learner{
	"ols":      OLSLearner,
	"ridge":    RidgeLearner,
	"lasso":    LassoLearner,
	"logistic": LogisticLearner,
}

// LearnerByName returns "ols", "ridge", "lasso" or "logistic" (case-insensitive).
func LearnerByName(name string) (*Learner, error) {
	f, ok := learners[strings.ToLower(name)]
	if !ok {
		return nil, errors.NewValidationError("model", "unknown model, want one of "+strings.Join(LearnerNames(), ", "), name)
	}
	return f(), nil
}

// LearnerNames lists the names LearnerByName accepts.
func LearnerNames() []string {
	names := make([]string, 0, len(learners))
	for name := range learners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
