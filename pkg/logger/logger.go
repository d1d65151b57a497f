// Package logger provides structured logging capabilities for asimeow.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a map of field names to values attached to a log entry.
type Fields map[string]interface{}

// Logger defines the logging operations used across asimeow.
type Logger interface {
	// Debug logs a message at debug level. Only shown when verbosity >= 1
	Debug(msg string)

	// Info logs a message at info level. Always shown.
	Info(msg string)

	// Warn logs a message at warn level. Always shown.
	Warn(msg string)

	// Error logs a message at error level. Always shown.
	Error(msg string)

	// Trace logs a message at trace level. Only shown when verbosity >= 2
	Trace(msg string)

	// WithFields returns a new Logger carrying the given fields on every entry.
	WithFields(fields Fields) Logger
}

// Encoding selects how log entries are rendered.
type Encoding string

const (
	// EncodingJSON renders one JSON object per entry.
	EncodingJSON Encoding = "json"

	// EncodingConsole renders tab separated human readable lines.
	EncodingConsole Encoding = "console"
)

// Config holds the configuration for creating a new logger instance.
type Config struct {
	// Verbosity determines the logging level:
	// <0: Warn, Error
	// 0: Info, Warn, Error (default)
	// 1: Debug + Level 0
	// 2: Trace + Level 1
	Verbosity int

	// Encoding defaults to EncodingJSON.
	Encoding Encoding

	// Output specifies where logs should be written.
	// If nil, defaults to os.Stderr
	Output io.Writer
}

type logger struct {
	zap       *zap.Logger
	verbosity int
}

// NewLogger creates a new Logger instance with the given configuration.
//
//	log := NewLogger(Config{Verbosity: 1, Encoding: EncodingConsole})
//	log.WithFields(Fields{"root": "~/src"}).Info("Scan started")
func NewLogger(config Config) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch config.Encoding {
	case EncodingConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(config.Output),
		levelFor(config.Verbosity),
	)

	return &logger{
		zap:       zap.New(core),
		verbosity: config.Verbosity,
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &logger{zap: zap.NewNop()}
}

func levelFor(verbosity int) zapcore.LevelEnabler {
	switch {
	case verbosity < 0:
		return zapcore.WarnLevel
	case verbosity == 0:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (l *logger) Debug(msg string) {
	l.zap.Debug(msg)
}

func (l *logger) Info(msg string) {
	l.zap.Info(msg)
}

func (l *logger) Warn(msg string) {
	l.zap.Warn(msg)
}

func (l *logger) Error(msg string) {
	l.zap.Error(msg)
}

// Trace is emitted at zap's debug level with a TRACE prefix.
func (l *logger) Trace(msg string) {
	if l.verbosity >= 2 {
		l.zap.Debug("TRACE: " + msg)
	}
}

func (l *logger) WithFields(fields Fields) Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return &logger{
		zap:       l.zap.With(zapFields...),
		verbosity: l.verbosity,
	}
}
