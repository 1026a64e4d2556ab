package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// CSVOptions controls how LoadCSV maps columns onto a Dataset.
type CSVOptions struct {
	// Outcome names the outcome column. Required.
	Outcome string
	// Kind is the outcome kind.
	Kind OutcomeKind
	// Positive names the outcome level mapped to 1 for Binary outcomes.
	// When empty, a Binary outcome column must already hold 0 and 1.
	Positive string
	// Categorical forces columns to be read as categorical.
	Categorical []string
	// Exclude drops columns.
	Exclude []string
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	ds, err := LoadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return ds, nil
}

// LoadCSV reads a header row followed by records. A column not listed in
// Categorical is numeric when every cell parses as a float and categorical
// otherwise. Empty cells are rejected.
func LoadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	if opts.Outcome == "" {
		return nil, errors.NewValidationError("outcome", "outcome column must be named", "")
	}

	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(rows) < 2 {
		return nil, errors.NewValidationError("csv", "need a header and at least one record", len(rows))
	}

	header := rows[0]
	body := rows[1:]

	outcomeCol := -1
	for j, name := range header {
		header[j] = strings.TrimSpace(name)
		if header[j] == opts.Outcome {
			outcomeCol = j
		}
	}
	if outcomeCol < 0 {
		return nil, errors.NewValidationError("outcome", "column not found in header", opts.Outcome)
	}

	excluded := toSet(opts.Exclude)
	forced := toSet(opts.Categorical)

	var featureCols []int
	for j, name := range header {
		if j == outcomeCol {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		featureCols = append(featureCols, j)
	}

	for i, row := range body {
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				return nil, errors.NewValidationError("csv", fmt.Sprintf("empty cell in record %d", i+1), "")
			}
		}
	}

	numeric := make(map[int]bool, len(featureCols))
	for _, j := range featureCols {
		if _, ok := forced[header[j]]; ok {
			continue
		}
		numeric[j] = columnIsNumeric(body, j)
	}

	if opts.Kind == Binary && opts.Positive != "" {
		if err := checkBinaryLevels(body, outcomeCol, opts); err != nil {
			return nil, err
		}
	}

	records := make([]Record, len(body))
	for i, row := range body {
		outcome, err := parseOutcome(row[outcomeCol], opts)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i+1)
		}
		values := make(map[string]Value, len(featureCols))
		for _, j := range featureCols {
			cell := strings.TrimSpace(row[j])
			if numeric[j] {
				f, _ := strconv.ParseFloat(cell, 64)
				values[header[j]] = Num(f)
			} else {
				values[header[j]] = Cat(cell)
			}
		}
		records[i] = Record{Values: values, Outcome: outcome}
	}

	names := make([]string, len(featureCols))
	for i, j := range featureCols {
		names[i] = header[j]
	}
	return New(records, names, opts.Kind)
}

func parseOutcome(cell string, opts CSVOptions) (float64, error) {
	cell = strings.TrimSpace(cell)
	if opts.Kind == Binary && opts.Positive != "" {
		if cell == opts.Positive {
			return 1, nil
		}
		return 0, nil
	}
	y, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, errors.NewValidationError(opts.Outcome, "outcome is not numeric", cell)
	}
	return y, nil
}

// checkBinaryLevels rejects an outcome column that has more than two
// levels or never contains the positive level.
func checkBinaryLevels(rows [][]string, col int, opts CSVOptions) error {
	levels := make(map[string]struct{}, 2)
	for _, row := range rows {
		levels[strings.TrimSpace(row[col])] = struct{}{}
	}
	if len(levels) > 2 {
		names := make([]string, 0, len(levels))
		for level := range levels {
			names = append(names, level)
		}
		sort.Strings(names)
		return errors.NewValidationError(opts.Outcome, "binary outcome has more than two levels", names)
	}
	if _, ok := levels[opts.Positive]; !ok {
		return errors.NewValidationError("positive", "level not found in outcome column", opts.Positive)
	}
	return nil
}

func columnIsNumeric(rows [][]string, j int) bool {
	for _, row := range rows {
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64); err != nil {
			return false
		}
	}
	return true
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
