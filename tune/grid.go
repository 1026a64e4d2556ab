package tune

import (
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Setting is one named hyperparameter value.
type Setting struct {
	Name  string
	Value float64
}

// Point is one combination of hyperparameter values, in grid order.
// Integer-valued hyperparameters are carried as float64.
type Point []Setting

// Lookup returns the value of name and whether the point has it.
func (p Point) Lookup(name string) (float64, bool) {
	for _, s := range p {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// Get returns the value of name, or dflt when the point does not set it.
func (p Point) Get(name string, dflt float64) float64 {
	if v, ok := p.Lookup(name); ok {
		return v
	}
	return dflt
}

// Int returns the value of name truncated to an int, or dflt.
func (p Point) Int(name string, dflt int) int {
	if v, ok := p.Lookup(name); ok {
		return int(v)
	}
	return dflt
}

// Map returns the point as a name → value map.
func (p Point) Map() map[string]float64 {
	m := make(map[string]float64, len(p))
	for _, s := range p {
		m[s.Name] = s.Value
	}
	return m
}

// String formats the point as "alpha=0.1, max_iter=100". The empty point
// formats as "".
func (p Point) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Name + "=" + strconv.FormatFloat(s.Value, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// Param is one hyperparameter and its candidate values.
type Param struct {
	Name   string
	Values []float64
}

// Grid is the full cross product of its params. The first param varies
// slowest. A grid with no params has exactly one, empty, point.
type Grid []Param

// Validate checks names and values.
func (g Grid) Validate() error {
	seen := make(map[string]struct{}, len(g))
	for _, p := range g {
		if p.Name == "" {
			return errors.NewValidationError("grid", "parameter name is empty", p.Values)
		}
		if _, dup := seen[p.Name]; dup {
			return errors.NewValidationError("grid", "duplicate parameter", p.Name)
		}
		seen[p.Name] = struct{}{}
		if len(p.Values) == 0 {
			return errors.NewValidationError(p.Name, "no candidate values", p.Values)
		}
		for _, v := range p.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewValidationError(p.Name, "candidate value is not finite", v)
			}
		}
	}
	return nil
}

// Size is the number of points in the grid.
func (g Grid) Size() int {
	size := 1
	for _, p := range g {
		size *= len(p.Values)
	}
	return size
}

// Points enumerates the grid in nested-loop order.
func (g Grid) Points() ([]Point, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	points := make([]Point, 0, g.Size())
	idx := make([]int, len(g))
	for {
		pt := make(Point, len(g))
		for j, p := range g {
			pt[j] = Setting{Name: p.Name, Value: p.Values[idx[j]]}
		}
		points = append(points, pt)

		// odometer increment, last param fastest
		j := len(g) - 1
		for ; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(g[j].Values) {
				break
			}
			idx[j] = 0
		}
		if j < 0 {
			return points, nil
		}
	}
}
