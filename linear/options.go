package linear

// Defaults for the regularised learners.
const (
	DefaultAlpha   = 1.0
	DefaultC       = 1.0
	DefaultMaxIter = 1000
	DefaultTol     = 1e-6
)

type options struct {
	alpha   float64
	c       float64
	maxIter int
	tol     float64
}

func defaultOptions() options {
	return options{
		alpha:   DefaultAlpha,
		c:       DefaultC,
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
	}
}

// Option configures Ridge, Lasso and Logistic. Options a model does not
// use are ignored.
type Option func(*options)

// WithAlpha sets the regularisation strength of Ridge and Lasso.
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithC sets the inverse regularisation strength of Logistic.
func WithC(c float64) Option {
	return func(o *options) {
		o.c = c
	}
}

// WithMaxIter caps the iterations of Lasso and Logistic.
func WithMaxIter(n int) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

// WithTol sets the convergence tolerance on the largest coefficient change.
func WithTol(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}
