// Package tune runs repeated k-fold cross-validated grid search.
//
// For each replicate a fresh partition is drawn with a seed derived from the
// base seed and the replicate index. Every grid point is trained on each
// fold's complement and predicts the held-out fold; the held-out predictions
// of one replicate are pooled into a single length-n vector per grid point
// and scored once. The best point has the best mean score across
// replicates, ties going to the earliest point in grid order.
//
// Any learner error, including a panic, aborts the whole run.
package tune

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/partition"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/pkg/log"
)

// Result is the outcome of a tuning run.
type Result struct {
	// Best is Points[BestIndex].
	Best      Point
	BestIndex int
	// BestScore is the mean score of Best across replicates.
	BestScore float64

	Points []Point
	Scores *ScoreMatrix

	Scorer     string
	Direction  Direction
	Folds      int
	Replicates int
	Seed       uint64
}

// fold is one held-out part and its training complement.
type fold struct {
	heldOut []int
	train   *dataset.Dataset
	holdout *dataset.Dataset
}

// Tune evaluates every point of grid by repeated k-fold cross-validation on
// ds and returns the best one. Arguments are validated before any training.
func Tune(ctx context.Context, ds *dataset.Dataset, grid Grid, learner Learner, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("tune")
	}

	points, err := validate(ds, grid, learner, &cfg)
	if err != nil {
		return nil, err
	}

	n := ds.Len()
	y := ds.Outcomes()
	scores := newScoreMatrix(cfg.replicates, len(points))

	logger := cfg.logger.With(
		log.OperationKey, log.OperationTune,
		log.ModelNameKey, learnerName(learner),
	)
	logger.Info("Tuning started",
		log.SamplesKey, n,
		log.OutcomeKindKey, ds.Kind().String(),
		log.GridPointsKey, len(points),
		log.FoldsKey, cfg.folds,
		log.ReplicatesKey, cfg.replicates,
		log.RandomSeedKey, cfg.seed,
		log.MetricKey, cfg.scorer.Name(),
		log.WorkersKey, cfg.workers,
	)
	start := time.Now()

	for rep := 0; rep < cfg.replicates; rep++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "tuning cancelled")
		}

		folds, err := makeFolds(ds, cfg.folds, partition.DeriveSeed(cfg.seed, rep))
		if err != nil {
			return nil, err
		}

		pooled := make([][]float64, len(points))
		for p := range pooled {
			pooled[p] = make([]float64, n)
		}

		if err := runReplicate(ctx, cfg.workers, rep, folds, points, learner, pooled); err != nil {
			logger.Error("Tuning failed", err, log.ReplicateKey, rep)
			return nil, err
		}

		for p, pt := range points {
			score, err := cfg.scorer.Score(y, pooled[p])
			if err != nil {
				logger.Error("Scoring failed", err, log.ReplicateKey, rep, log.GridPointKey, pt.String())
				return nil, errors.Wrapf(err, "scoring replicate %d, point {%s}", rep, pt)
			}
			scores.set(rep, p, score)
		}

		logger.Debug("Replicate finished",
			log.ReplicateKey, rep,
			log.PhaseKey, log.PhaseValidation,
		)
	}

	best := 0
	means := scores.Means()
	for p := 1; p < len(points); p++ {
		if cfg.scorer.Direction().Better(means[p], means[best]) {
			best = p
		}
	}

	logger.Info("Tuning finished",
		log.PhaseKey, log.PhaseSelection,
		log.GridPointKey, points[best].String(),
		log.ScoreKey, means[best],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		Best:       points[best],
		BestIndex:  best,
		BestScore:  means[best],
		Points:     points,
		Scores:     scores,
		Scorer:     cfg.scorer.Name(),
		Direction:  cfg.scorer.Direction(),
		Folds:      cfg.folds,
		Replicates: cfg.replicates,
		Seed:       cfg.seed,
	}, nil
}

func validate(ds *dataset.Dataset, grid Grid, learner Learner, cfg *config) ([]Point, error) {
	if ds == nil {
		return nil, errors.NewValidationError("dataset", "must not be nil", nil)
	}
	if learner == nil {
		return nil, errors.NewValidationError("learner", "must not be nil", nil)
	}
	if cfg.folds < 2 {
		return nil, errors.NewValidationError("folds", "must be at least 2 so every fold has training records", cfg.folds)
	}
	if cfg.folds > ds.Len() {
		return nil, errors.NewValidationError("folds", "must not exceed the number of records", cfg.folds)
	}
	if cfg.replicates < 1 {
		return nil, errors.NewValidationError("replicates", "must be positive", cfg.replicates)
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.NumCPU()
	}
	if cfg.scorer == nil {
		cfg.scorer = DefaultScorer(ds.Kind())
	}
	if !cfg.scorer.Supports(ds.Kind()) {
		return nil, errors.NewValidationError("scorer", "does not support "+ds.Kind().String()+" outcomes", cfg.scorer.Name())
	}
	return grid.Points()
}

func makeFolds(ds *dataset.Dataset, k int, seed uint64) ([]fold, error) {
	parts, err := partition.Partition(ds.Len(), k, seed)
	if err != nil {
		return nil, err
	}
	folds := make([]fold, k)
	for f, part := range parts {
		holdout, err := ds.Subset(part)
		if err != nil {
			return nil, err
		}
		train, err := ds.Subset(partition.Complement(ds.Len(), part))
		if err != nil {
			return nil, err
		}
		folds[f] = fold{heldOut: part, train: train, holdout: holdout}
	}
	return folds, nil
}

// runReplicate evaluates every (fold, point) pair. Each evaluation writes
// only the held-out slots of its own point's pooled vector, so the slots
// written by concurrent evaluations never overlap.
func runReplicate(ctx context.Context, workers, rep int, folds []fold, points []Point, learner Learner, pooled [][]float64) error {
	if workers == 1 {
		for f := range folds {
			for p := range points {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(err, "tuning cancelled")
				}
				if err := evaluate(rep, f, folds[f], points[p], learner, pooled[p]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for f := range folds {
		for p := range points {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return evaluate(rep, f, folds[f], points[p], learner, pooled[p])
			})
		}
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, "tuning cancelled")
		}
		return err
	}
	return nil
}

func evaluate(rep, f int, fd fold, pt Point, learner Learner, out []float64) error {
	fitted, err := train(learner, fd.train, pt)
	if err == nil && fitted == nil {
		err = errors.New("learner returned no model")
	}
	if err != nil {
		return errors.NewTrainingFailureError(rep, f, pt.String(), err)
	}

	pred, err := predict(fitted, fd.holdout)
	if err != nil {
		return errors.NewTrainingFailureError(rep, f, pt.String(), err)
	}
	if len(pred) != len(fd.heldOut) {
		return errors.Wrapf(
			errors.NewDimensionError("Fitted.Predict", len(fd.heldOut), len(pred), 0),
			"replicate %d, fold %d, point {%s}", rep, f, pt)
	}
	if err := errors.CheckNumericalStability("Fitted.Predict", pred, rep); err != nil {
		return errors.Wrapf(err, "replicate %d, fold %d, point {%s}", rep, f, pt)
	}

	for i, idx := range fd.heldOut {
		out[idx] = pred[i]
	}
	return nil
}

func train(learner Learner, ds *dataset.Dataset, pt Point) (fitted Fitted, err error) {
	defer errors.Recover(&err, "Learner.Train")
	return learner.Train(ds, pt)
}

func predict(fitted Fitted, ds *dataset.Dataset) (pred []float64, err error) {
	defer errors.Recover(&err, "Fitted.Predict")
	return fitted.Predict(ds)
}
