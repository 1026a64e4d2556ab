package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "cvgrid: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "cvgrid: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("k", "must be positive", 0)

	want := "cvgrid: validation failed for parameter 'k': must be positive (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "k" {
		t.Errorf("ParamName = %q, want %q", valErr.ParamName, "k")
	}
}

func TestNewTrainingFailureError(t *testing.T) {
	cause := fmt.Errorf("singular design")
	err := NewTrainingFailureError(1, 2, "alpha=0", cause)

	want := "cvgrid: training failed at replicate 1, fold 2, point {alpha=0}: singular design"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// 元のエラーはそのまま取り出せる
	if !Is(err, cause) {
		t.Error("Expected Is(err, cause) to be true")
	}

	var tfErr *TrainingFailureError
	if !As(err, &tfErr) {
		t.Fatal("Error should be castable to *TrainingFailureError")
	}
	if tfErr.Replicate != 1 || tfErr.Fold != 2 {
		t.Errorf("unexpected location: replicate=%d fold=%d", tfErr.Replicate, tfErr.Fold)
	}
}

func TestNewDegenerateScoreError(t *testing.T) {
	err := NewDegenerateScoreError("r2", "total sum of squares is zero")

	want := "cvgrid: r2 is undefined: total sum of squares is zero"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var degErr *DegenerateScoreError
	if !As(err, &degErr) {
		t.Error("Error should be castable to *DegenerateScoreError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 8, 0)

	want := "cvgrid: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Ridge", "Predict")

	want := "cvgrid: Ridge: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("Lasso", 1000, "dual gap did not shrink")

	want := "Lasso failed to converge after 1000 iterations: dual gap did not shrink"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("Logistic", 50, ""))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("predict", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("predict", []float64{1, math.NaN()}, 3)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 3 {
		t.Errorf("Iteration = %d, want 3", numErr.Iteration)
	}
}
