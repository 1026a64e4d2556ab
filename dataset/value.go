package dataset

import "strconv"

// Value is a single feature cell: either numeric or categorical.
type Value struct {
	cat   bool
	num   float64
	level string
}

// Num returns a numeric Value.
func Num(v float64) Value { return Value{num: v} }

// Cat returns a categorical Value.
func Cat(level string) Value { return Value{cat: true, level: level} }

// IsCategorical reports whether v was built with Cat.
func (v Value) IsCategorical() bool { return v.cat }

// Float returns the numeric payload. It is zero for categorical values.
func (v Value) Float() float64 { return v.num }

// Level returns the categorical payload. It is empty for numeric values.
func (v Value) Level() string { return v.level }

func (v Value) String() string {
	if v.cat {
		return v.level
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Record is one observation: named feature values and a numeric outcome.
// Binary outcomes are 0 or 1.
type Record struct {
	Values  map[string]Value
	Outcome float64
}

func (r Record) clone() Record {
	values := make(map[string]Value, len(r.Values))
	for name, v := range r.Values {
		values[name] = v
	}
	return Record{Values: values, Outcome: r.Outcome}
}

// OutcomeKind selects which scorers and learners apply to a dataset.
type OutcomeKind int

const (
	// Continuous outcomes are real-valued (regression).
	Continuous OutcomeKind = iota
	// Binary outcomes are 0 or 1 (classification).
	Binary
)

func (k OutcomeKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseOutcomeKind converts "continuous" or "binary" into an OutcomeKind.
func ParseOutcomeKind(s string) (OutcomeKind, bool) {
	switch s {
	case "continuous", "":
		return Continuous, true
	case "binary":
		return Binary, true
	default:
		return Continuous, false
	}
}
