package log

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	cverrors "github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewConsoleLogger creates a human-readable logger for terminals.
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	zl := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error implements Logger.Error. A leading error value is attached with its
// stack trace and, when it knows how, its structured detail.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	event := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			event = withError(event, err)
			fields = fields[1:]
		}
	}
	event.Fields(fields).Msg(msg)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func withError(event *zerolog.Event, err error) *zerolog.Event {
	event = event.Err(err)
	var detail zerolog.LogObjectMarshaler
	if errors.As(err, &detail) {
		event = event.Object("error_detail", detail)
	}
	if st := extractStacktrace(err); st != "" {
		event = event.Str(StacktraceAttrKey, st)
	}
	return event
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// zerologProvider is the process-wide LoggerProvider.
type zerologProvider struct {
	mu     sync.RWMutex
	out    io.Writer
	level  Level
	logger *ZerologLogger
}

func (p *zerologProvider) rebuild() {
	p.logger = NewZerologLogger(p.out, p.level)
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.rebuild()
}

func (p *zerologProvider) setOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = w
	p.rebuild()
}

var defaultProvider = func() *zerologProvider {
	p := &zerologProvider{out: os.Stderr, level: LevelInfo}
	p.rebuild()
	return p
}()

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns the process-wide logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel changes the minimum level of the process-wide logger.
func SetLevel(level Level) {
	defaultProvider.SetLevel(level)
}

// SetOutput redirects the process-wide logger.
func SetOutput(w io.Writer) {
	defaultProvider.setOutput(w)
}

// Provider returns the process-wide LoggerProvider.
func Provider() LoggerProvider {
	return defaultProvider
}

// InstallWarningBridge routes errors.Warn through the process-wide logger.
func InstallWarningBridge() {
	cverrors.SetZerologWarnFunc(func(w error) {
		logger := GetLoggerWithName("warnings")
		var detail zerolog.LogObjectMarshaler
		if errors.As(w, &detail) {
			if zl, ok := logger.(*ZerologLogger); ok {
				zl.zl.Warn().Object("warning", detail).Msg(w.Error())
				return
			}
		}
		logger.Warn(w.Error())
	})
}
