// Package log defines standard attribute keys for tuning and model operations.
//
// Using these keys keeps log records from the partitioner, the tuning driver
// and the learners filterable with the same queries. Keys follow a
// hierarchical naming convention (e.g. "cv.replicate", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model being tuned or fitted.
	// Examples: "Ridge", "Lasso", "Logistic"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "tune", "partition"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is performing the operation.
	// Examples: "tune", "linear", "config"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// OutcomeKindKey records whether the outcome is continuous or binary.
	OutcomeKindKey = "data.outcome_kind"

	// DataPathKey records the file a dataset was loaded from.
	DataPathKey = "data.path"
)

// Cross-validation context
const (
	// FoldsKey records the number of folds k.
	FoldsKey = "cv.folds"

	// ReplicatesKey records the number of replicates r.
	ReplicatesKey = "cv.replicates"

	// ReplicateKey records the current replicate index.
	ReplicateKey = "cv.replicate"

	// FoldKey records the current fold index.
	FoldKey = "cv.fold"

	// GridPointsKey records the number of grid points evaluated.
	GridPointsKey = "cv.grid_points"

	// GridPointKey records a grid point in "name=value" form.
	GridPointKey = "cv.grid_point"

	// WorkersKey records the number of concurrent evaluations allowed.
	WorkersKey = "cv.workers"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ScoreKey records a held-out score value.
	ScoreKey = "metrics.score"

	// MetricKey records the name of the scoring metric.
	MetricKey = "metrics.name"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RegularizationKey records regularization strength (L1, L2, etc.).
	RegularizationKey = "hyperparams.regularization"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigPathKey records the configuration file in use.
	ConfigPathKey = "config.path"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationTune      = "tune"
	OperationPartition = "partition"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseSelection  = "selection"

	ErrorInvalidArgument = "INVALID_ARGUMENT"
	ErrorTrainingFailure = "TRAINING_FAILURE"
	ErrorDegenerateScore = "DEGENERATE_SCORE"
	ErrorConvergence     = "CONVERGENCE_FAILURE"
)
