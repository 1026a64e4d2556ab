package tune

import "github.com/YuminosukeSato/cvgrid/dataset"

// Learner trains a model on a training subset for one grid point.
// Implementations must not retain or mutate train.
type Learner interface {
	Train(train *dataset.Dataset, p Point) (Fitted, error)
}

// Fitted predicts outcomes for a holdout subset. Predictions must have the
// same length and order as holdout. For Binary outcomes they are
// probabilities of the positive class.
type Fitted interface {
	Predict(holdout *dataset.Dataset) ([]float64, error)
}

// LearnerFunc adapts a function to Learner.
type LearnerFunc func(train *dataset.Dataset, p Point) (Fitted, error)

// Train calls f(train, p).
func (f LearnerFunc) Train(train *dataset.Dataset, p Point) (Fitted, error) {
	return f(train, p)
}

// FittedFunc adapts a function to Fitted.
type FittedFunc func(holdout *dataset.Dataset) ([]float64, error)

// Predict calls f(holdout).
func (f FittedFunc) Predict(holdout *dataset.Dataset) ([]float64, error) {
	return f(holdout)
}

// named is implemented by learners that can report a model name for logs.
type named interface {
	Name() string
}

func learnerName(l Learner) string {
	if n, ok := l.(named); ok {
		return n.Name()
	}
	return "custom"
}
