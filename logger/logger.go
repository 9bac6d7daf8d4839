// Package logger holds the process wide diagnostic logger. User facing
// output goes through the ui package; this logger is for operators.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

type options struct {
	level  zapcore.Level
	format string
}

type Option func(*options)

func WithLevel(level zapcore.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormat selects "console" (default) or "json" encoding.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// Init builds the global logger. Logs go to stderr so they never mix with
// the rendered faucet view on stdout.
func Init(opts ...Option) error {
	o := &options{level: zapcore.WarnLevel, format: "console"}
	for _, opt := range opts {
		opt(o)
	}

	var cfg zap.Config
	switch o.format {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return fmt.Errorf("unsupported log format: %s", o.format)
	}
	cfg.Level = zap.NewAtomicLevelAt(o.level)
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("couldn't build logger: %w", err)
	}
	set(l.Sugar())
	return nil
}

// InitFromStrings is Init for flag values.
func InitFromStrings(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse logger level: %w", err)
	}
	return Init(WithLevel(lvl), WithFormat(format))
}

// Replace swaps the global logger and returns a func restoring the previous
// one.
func Replace(l *zap.SugaredLogger) func() {
	prev := L()
	set(l)
	return func() { set(prev) }
}

func set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugw(msg string, keysAndValues ...interface{}) {
	L().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	L().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	L().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	L().Errorw(msg, keysAndValues...)
}

func Sync() {
	_ = L().Sync()
}
