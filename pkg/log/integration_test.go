package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cverrors "github.com/YuminosukeSato/cvgrid/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationTune)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorTrainingFailure)

	require.NotEmpty(t, buffer.String())
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
	assert.True(t, testLogger.ContainsField(ErrorCodeKey, ErrorTrainingFailure))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	child := testLogger.With(ModelNameKey, "Ridge", ComponentKey, "tune")
	child.Info("contextual message", ReplicateKey, 1)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "Ridge"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "tune"))
	assert.True(t, testLogger.ContainsField(ReplicateKey, 1.0))
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")
	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestTestLoggerConcurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				testLogger.With(WorkersKey, id).Info("evaluation done", FoldKey, j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ComponentKey, "tune").Info("Tuning started", SamplesKey, 100, FoldsKey, 5)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Tuning started", entries[0]["message"])
	assert.Equal(t, "tune", entries[0][ComponentKey])
	assert.Equal(t, 100.0, entries[0][SamplesKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestZerologLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := cverrors.NewValidationError("k", "must be at least 2", 1)
	logger.Error("Tuning failed", err, ReplicateKey, 0)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Contains(t, entries[0]["error"], "must be at least 2")

	detail, ok := entries[0]["error_detail"].(map[string]interface{})
	require.True(t, ok, "structured error detail expected")
	assert.Equal(t, "ValidationError", detail["type"])
	assert.Equal(t, "k", detail["param_name"])
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("failed", ErrAttr(cverrors.NewValueError("op", "bad")))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0][StacktraceAttrKey])
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SetupLoggerTo(&buf, "loud"))
}

func TestWarningBridge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "debug"))
	defer cverrors.SetZerologWarnFunc(nil)

	cverrors.Warn(cverrors.NewConvergenceWarning("Lasso", 10, "tolerance not reached"))

	assert.Contains(t, buf.String(), "Lasso failed to converge")
	assert.Contains(t, buf.String(), "ConvergenceWarning")
}
