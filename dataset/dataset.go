// Package dataset holds the immutable tabular data a tuning run operates on.
//
// A Dataset is an ordered list of records plus a Schema. Subsets share the
// schema and the underlying records, so the design matrix of any subset is
// encoded against the categorical levels of the full dataset and train and
// holdout subsets always have the same columns.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cvgrid/core/parallel"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/preprocessing"
)

// matrixParallelThreshold is the row count above which Matrix encodes in parallel.
const matrixParallelThreshold = 2000

// Feature describes one input column.
type Feature struct {
	Name        string
	Categorical bool
	// Levels holds the sorted categorical levels seen in the full dataset.
	Levels []string
}

// Schema describes the features of a dataset and how they are encoded.
type Schema struct {
	Features []Feature

	encoders []*preprocessing.OneHotEncoder // nil for numeric features
	columns  []string
}

// Columns returns the design-matrix column names.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Dataset is an immutable, ordered collection of records.
type Dataset struct {
	schema  *Schema
	records []Record
	index   []int
	kind    OutcomeKind
}

// New builds a Dataset. features fixes the column order; every record must
// carry every feature with the same variant (numeric or categorical) across
// records. Binary outcomes must be exactly 0 or 1.
func New(records []Record, features []string, kind OutcomeKind) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.NewValidationError("records", "dataset is empty", 0)
	}
	if kind != Continuous && kind != Binary {
		return nil, errors.NewValidationError("kind", "unknown outcome kind", int(kind))
	}

	seen := make(map[string]struct{}, len(features))
	for _, name := range features {
		if _, dup := seen[name]; dup {
			return nil, errors.NewValidationError("features", "duplicate feature name", name)
		}
		seen[name] = struct{}{}
	}

	for i, rec := range records {
		if math.IsNaN(rec.Outcome) || math.IsInf(rec.Outcome, 0) {
			return nil, errors.NewValidationError("outcome", fmt.Sprintf("record %d is not finite", i), rec.Outcome)
		}
		if kind == Binary && rec.Outcome != 0 && rec.Outcome != 1 {
			return nil, errors.NewValidationError("outcome", fmt.Sprintf("record %d is not 0 or 1", i), rec.Outcome)
		}
	}

	schema, err := buildSchema(records, features)
	if err != nil {
		return nil, err
	}

	own := make([]Record, len(records))
	for i, rec := range records {
		own[i] = rec.clone()
	}
	index := make([]int, len(own))
	for i := range index {
		index[i] = i
	}
	return &Dataset{schema: schema, records: own, index: index, kind: kind}, nil
}

func buildSchema(records []Record, names []string) (*Schema, error) {
	schema := &Schema{
		Features: make([]Feature, len(names)),
		encoders: make([]*preprocessing.OneHotEncoder, len(names)),
	}

	for j, name := range names {
		first, ok := records[0].Values[name]
		if !ok {
			return nil, errors.NewValidationError(name, "missing in record 0", nil)
		}
		feature := Feature{Name: name, Categorical: first.IsCategorical()}
		levels := make(map[string]struct{})

		for i, rec := range records {
			v, ok := rec.Values[name]
			if !ok {
				return nil, errors.NewValidationError(name, fmt.Sprintf("missing in record %d", i), nil)
			}
			if v.IsCategorical() != feature.Categorical {
				return nil, errors.NewValidationError(name, fmt.Sprintf("mixed numeric and categorical values at record %d", i), v.String())
			}
			if feature.Categorical {
				levels[v.Level()] = struct{}{}
			} else if math.IsNaN(v.Float()) || math.IsInf(v.Float(), 0) {
				return nil, errors.NewValidationError(name, fmt.Sprintf("record %d is not finite", i), v.Float())
			}
		}

		if !feature.Categorical {
			schema.Features[j] = feature
			schema.columns = append(schema.columns, name)
			continue
		}

		for level := range levels {
			feature.Levels = append(feature.Levels, level)
		}
		sort.Strings(feature.Levels)
		schema.Features[j] = feature

		enc := preprocessing.NewOneHotEncoder(true)
		if err := enc.FitCategories([][]string{feature.Levels}); err != nil {
			return nil, err
		}
		schema.encoders[j] = enc
		schema.columns = append(schema.columns, enc.GetFeatureNamesOut([]string{name})...)
	}
	return schema, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.index) }

// Kind returns the outcome kind.
func (d *Dataset) Kind() OutcomeKind { return d.kind }

// Schema returns the shared schema.
func (d *Dataset) Schema() *Schema { return d.schema }

// Features returns the feature names in column order.
func (d *Dataset) Features() []string {
	names := make([]string, len(d.schema.Features))
	for j, f := range d.schema.Features {
		names[j] = f.Name
	}
	return names
}

// Record returns a copy of the i-th record of this dataset.
func (d *Dataset) Record(i int) Record {
	return d.records[d.index[i]].clone()
}

// Outcomes returns a copy of the outcome column.
func (d *Dataset) Outcomes() []float64 {
	y := make([]float64, len(d.index))
	for i, idx := range d.index {
		y[i] = d.records[idx].Outcome
	}
	return y
}

// OutcomeVector returns the outcome column as an n×1 matrix.
func (d *Dataset) OutcomeVector() *mat.Dense {
	return mat.NewDense(d.Len(), 1, d.Outcomes())
}

// Subset returns the records at the given positions, in the given order.
// Positions are relative to d, so subsets of subsets compose.
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, errors.NewValidationError("indices", "subset is empty", 0)
	}
	index := make([]int, len(indices))
	for i, pos := range indices {
		if pos < 0 || pos >= len(d.index) {
			return nil, errors.NewValidationError("indices", fmt.Sprintf("position out of range [0, %d)", len(d.index)), pos)
		}
		index[i] = d.index[pos]
	}
	return &Dataset{schema: d.schema, records: d.records, index: index, kind: d.kind}, nil
}

// Matrix returns the design matrix: numeric features as-is and categorical
// features dummy-encoded with the first level dropped.
func (d *Dataset) Matrix() (*mat.Dense, error) {
	cols := len(d.schema.columns)
	if cols == 0 {
		return nil, errors.NewValueError("Dataset.Matrix", "dataset has no encodable features")
	}

	X := mat.NewDense(d.Len(), cols, nil)

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(d.Len(), matrixParallelThreshold, func(start, end int) {
		if err := d.encodeRows(X.Slice(start, end, 0, cols).(*mat.Dense), start, end); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return X, nil
}

func (d *Dataset) encodeRows(dst *mat.Dense, start, end int) error {
	col := 0
	for j, feature := range d.schema.Features {
		enc := d.schema.encoders[j]
		if enc == nil {
			for i := start; i < end; i++ {
				dst.Set(i-start, col, d.records[d.index[i]].Values[feature.Name].Float())
			}
			col++
			continue
		}

		cells := make([][]string, end-start)
		for i := start; i < end; i++ {
			cells[i-start] = []string{d.records[d.index[i]].Values[feature.Name].Level()}
		}
		if err := enc.TransformInto(cells, dst, col); err != nil {
			return errors.Wrapf(err, "encoding feature %q", feature.Name)
		}
		col += enc.NOutputs()
	}
	return nil
}
