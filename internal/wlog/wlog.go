// Package wlog sets up the engine's structured loggers. Named tiers mirror
// the plain *log.Logger globals a small scientific-computing CLI
// traditionally wires up (boot banner, warnings, errors, result output),
// rebuilt here on zap so every line carries structured fields instead of
// being formatted text.
package wlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Loggers bundles the four named tiers the CLI and library code log
// through.
type Loggers struct {
	Boot   *zap.Logger
	Warn   *zap.Logger
	Err    *zap.Logger
	Output *zap.Logger

	base *zap.Logger
}

// New builds a Loggers writing JSON lines to stderr at the given level
// ("debug", "info", "warn", "error"), and additionally to logFile when
// non-empty.
func New(level string, logFile string) (*Loggers, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	atom := zap.NewAtomicLevelAt(lvl)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(f))
	}
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), atom)
	base := zap.New(core)

	return &Loggers{
		Boot:   base.With(zap.String("tier", "boot")),
		Warn:   base.With(zap.String("tier", "warn")),
		Err:    base.With(zap.String("tier", "error")),
		Output: base.With(zap.String("tier", "output")),
		base:   base,
	}, nil
}

// Sync flushes every underlying sink.
func (l *Loggers) Sync() error {
	return l.base.Sync()
}
