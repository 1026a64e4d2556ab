// Package config loads cvgrid run files written in HCL.
//
//	data {
//	  path         = "housing.csv"
//	  outcome      = "price"
//	  outcome_kind = "continuous"
//	  categorical  = ["region"]
//	  exclude      = ["id"]
//	}
//	tuning {
//	  folds      = 5
//	  replicates = 3
//	  seed       = 1
//	  workers    = 4
//	  metric     = "r2"
//	}
//	model "ridge" {
//	  param "alpha" { values = logspace(-3, 2, 6) }
//	}
//	output {
//	  plot = "scores.png"
//	}
//
// Param values may be literal lists or calls to seq(from, to, by) and
// logspace(from, to, n).
package config

import (
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/pkg/log"
	"github.com/YuminosukeSato/cvgrid/tune"
)

// Defaults for the tuning block.
const (
	DefaultFolds      = tune.DefaultFolds
	DefaultReplicates = tune.DefaultReplicates
	DefaultSeed       = tune.DefaultSeed
	DefaultWorkers    = tune.DefaultWorkers
)

type fileSchema struct {
	Data   *dataBlock   `hcl:"data,block"`
	Tuning *tuningBlock `hcl:"tuning,block"`
	Model  *modelBlock  `hcl:"model,block"`
	Output *outputBlock `hcl:"output,block"`
}

type dataBlock struct {
	Path        string   `hcl:"path"`
	Outcome     string   `hcl:"outcome"`
	OutcomeKind string   `hcl:"outcome_kind,optional"`
	Positive    string   `hcl:"positive,optional"`
	Categorical []string `hcl:"categorical,optional"`
	Exclude     []string `hcl:"exclude,optional"`
}

type tuningBlock struct {
	Folds      *int   `hcl:"folds,optional"`
	Replicates *int   `hcl:"replicates,optional"`
	Seed       *int   `hcl:"seed,optional"`
	Workers    *int   `hcl:"workers,optional"`
	Metric     string `hcl:"metric,optional"`
}

type modelBlock struct {
	Name   string        `hcl:"name,label"`
	Params []*paramBlock `hcl:"param,block"`
}

type paramBlock struct {
	Name   string         `hcl:"name,label"`
	Values hcl.Expression `hcl:"values"`
}

type outputBlock struct {
	Plot  string `hcl:"plot,optional"`
	Title string `hcl:"title,optional"`
}

// Config is a decoded and validated run file.
type Config struct {
	// DataPath is resolved against the directory of the config file.
	DataPath string
	CSV      dataset.CSVOptions

	Folds      int
	Replicates int
	Seed       uint64
	Workers    int
	// Metric is empty when the default for the outcome kind applies.
	Metric string

	Model string
	Grid  tune.Grid

	PlotPath  string
	PlotTitle string
}

// Load parses the HCL file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Newf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	cfg, err := decode(file.Body, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	log.GetLoggerWithName("config").Debug("Config loaded",
		log.ConfigPathKey, path,
		log.ModelNameKey, cfg.Model,
		log.GridPointsKey, cfg.Grid.Size(),
	)
	return cfg, nil
}

// Parse decodes HCL source. Relative data and plot paths are resolved
// against baseDir.
func Parse(src []byte, filename, baseDir string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Newf("failed to parse HCL %s: %s", filename, diags.Error())
	}
	return decode(file.Body, baseDir)
}

func decode(body hcl.Body, baseDir string) (*Config, error) {
	ctx := evalContext()

	var raw fileSchema
	if diags := gohcl.DecodeBody(body, ctx, &raw); diags.HasErrors() {
		return nil, errors.Newf("failed to decode HCL: %s", diags.Error())
	}
	if raw.Data == nil {
		return nil, errors.NewValidationError("data", "block is required", nil)
	}
	if raw.Model == nil {
		return nil, errors.NewValidationError("model", "block is required", nil)
	}

	kind, ok := dataset.ParseOutcomeKind(raw.Data.OutcomeKind)
	if !ok {
		return nil, errors.NewValidationError("outcome_kind", "must be \"continuous\" or \"binary\"", raw.Data.OutcomeKind)
	}

	cfg := &Config{
		DataPath: resolve(baseDir, raw.Data.Path),
		CSV: dataset.CSVOptions{
			Outcome:     raw.Data.Outcome,
			Kind:        kind,
			Positive:    raw.Data.Positive,
			Categorical: raw.Data.Categorical,
			Exclude:     raw.Data.Exclude,
		},
		Folds:      DefaultFolds,
		Replicates: DefaultReplicates,
		Seed:       DefaultSeed,
		Workers:    DefaultWorkers,
		Model:      raw.Model.Name,
	}

	if t := raw.Tuning; t != nil {
		if t.Folds != nil {
			cfg.Folds = *t.Folds
		}
		if t.Replicates != nil {
			cfg.Replicates = *t.Replicates
		}
		if t.Seed != nil {
			if *t.Seed < 0 {
				return nil, errors.NewValidationError("seed", "must be non-negative", *t.Seed)
			}
			cfg.Seed = uint64(*t.Seed)
		}
		if t.Workers != nil {
			cfg.Workers = *t.Workers
		}
		if t.Metric != "" {
			s, err := tune.ScorerByName(t.Metric)
			if err != nil {
				return nil, err
			}
			if !s.Supports(kind) {
				return nil, errors.NewValidationError("metric", "does not support "+kind.String()+" outcomes", t.Metric)
			}
			cfg.Metric = s.Name()
		}
	}

	for _, p := range raw.Model.Params {
		values, err := evalValues(p.Values, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "param %q", p.Name)
		}
		cfg.Grid = append(cfg.Grid, tune.Param{Name: p.Name, Values: values})
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, err
	}

	if o := raw.Output; o != nil {
		if o.Plot != "" {
			cfg.PlotPath = resolve(baseDir, o.Plot)
		}
		cfg.PlotTitle = o.Title
	}
	return cfg, nil
}

func evalValues(expr hcl.Expression, ctx *hcl.EvalContext) ([]float64, error) {
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}
	if !val.Type().IsListType() && !val.Type().IsTupleType() && !val.Type().IsSetType() {
		val = cty.TupleVal([]cty.Value{val})
	}
	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, errors.Wrap(err, "values must be numbers")
	}
	if !list.IsWhollyKnown() || list.IsNull() {
		return nil, errors.New("values must be known numbers")
	}
	var out []float64
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, errors.Wrap(err, "values must be numbers")
	}
	return out, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// TuneOptions converts the tuning settings into tune options.
func (c *Config) TuneOptions() ([]tune.Option, error) {
	opts := []tune.Option{
		tune.WithFolds(c.Folds),
		tune.WithReplicates(c.Replicates),
		tune.WithSeed(c.Seed),
		tune.WithWorkers(c.Workers),
	}
	if c.Metric != "" {
		s, err := tune.ScorerByName(c.Metric)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tune.WithScorer(s))
	}
	return opts, nil
}
