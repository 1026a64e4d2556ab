package config

import (
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// maxSeqLen bounds seq and logspace so a typo cannot allocate without limit.
const maxSeqLen = 100000

// evalContext exposes the grid helper functions to config expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"seq":      seqFunc,
			"logspace": logspaceFunc,
		},
	}
}

func numberParams(names ...string) []function.Parameter {
	params := make([]function.Parameter, len(names))
	for i, name := range names {
		params[i] = function.Parameter{Name: name, Type: cty.Number}
	}
	return params
}

func toFloats(args []cty.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		if err := gocty.FromCtyValue(arg, &out[i]); err != nil {
			return nil, function.NewArgError(i, err)
		}
	}
	return out, nil
}

func listOf(values []float64) cty.Value {
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.NumberFloatVal(v)
	}
	return cty.ListVal(vals)
}

// seqFunc is seq(from, to, by): from, from+by, ... up to and including to.
var seqFunc = function.New(&function.Spec{
	Params: numberParams("from", "to", "by"),
	Type:   function.StaticReturnType(cty.List(cty.Number)),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		f, err := toFloats(args)
		if err != nil {
			return cty.NilVal, err
		}
		values, err := Seq(f[0], f[1], f[2])
		if err != nil {
			return cty.NilVal, err
		}
		return listOf(values), nil
	},
})

// logspaceFunc is logspace(from, to, n): n values from 10^from to 10^to,
// evenly spaced in log scale.
var logspaceFunc = function.New(&function.Spec{
	Params: numberParams("from", "to", "n"),
	Type:   function.StaticReturnType(cty.List(cty.Number)),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		f, err := toFloats(args)
		if err != nil {
			return cty.NilVal, err
		}
		values, err := LogSpace(f[0], f[1], f[2])
		if err != nil {
			return cty.NilVal, err
		}
		return listOf(values), nil
	},
})

// Seq returns from, from+by, ... while not past to. by may be negative for
// a descending sequence.
func Seq(from, to, by float64) ([]float64, error) {
	if by == 0 || math.IsNaN(by) {
		return nil, errors.NewValidationError("by", "step must be non-zero", by)
	}
	span := (to - from) / by
	if math.IsNaN(span) || math.IsInf(span, 0) {
		return nil, errors.NewValidationError("seq", "bounds must be finite", []float64{from, to})
	}
	if span < 0 {
		return nil, errors.NewValidationError("by", "step points away from the end", by)
	}
	if math.Floor(span+1e-9)+1 > maxSeqLen {
		return nil, errors.NewValidationError("seq", "too many values", span+1)
	}
	n := int(math.Floor(span+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*by
	}
	return out, nil
}

// LogSpace returns n values from 10^from to 10^to evenly spaced in log scale.
func LogSpace(from, to, n float64) ([]float64, error) {
	if n < 1 || n != math.Trunc(n) || n > maxSeqLen {
		return nil, errors.NewValidationError("n", "must be a positive integer", n)
	}
	if n == 1 {
		return []float64{math.Pow(10, from)}, nil
	}
	return floats.LogSpan(make([]float64, int(n)), math.Pow(10, from), math.Pow(10, to)), nil
}
