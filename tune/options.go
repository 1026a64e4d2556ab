package tune

import (
	"github.com/YuminosukeSato/cvgrid/pkg/log"
)

// Defaults applied by Tune.
const (
	DefaultFolds      = 5
	DefaultReplicates = 1
	DefaultSeed       = 1
	DefaultWorkers    = 1
)

type config struct {
	folds      int
	replicates int
	seed       uint64
	scorer     Scorer
	workers    int
	logger     log.Logger
}

func defaultConfig() config {
	return config{
		folds:      DefaultFolds,
		replicates: DefaultReplicates,
		seed:       DefaultSeed,
		workers:    DefaultWorkers,
	}
}

// Option configures a Tune call.
type Option func(*config)

// WithFolds sets k, the number of folds per replicate.
func WithFolds(k int) Option {
	return func(c *config) {
		c.folds = k
	}
}

// WithReplicates sets r, the number of independent partitions.
func WithReplicates(r int) Option {
	return func(c *config) {
		c.replicates = r
	}
}

// WithSeed sets the base seed replicate seeds are derived from.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithScorer overrides DefaultScorer for the dataset's outcome kind.
func WithScorer(s Scorer) Option {
	return func(c *config) {
		c.scorer = s
	}
}

// WithWorkers bounds how many (fold, point) evaluations run at once.
// 1 runs sequentially; 0 or less uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLogger sets the logger. The default is the process-wide logger
// named "tune".
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
