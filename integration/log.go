package integration

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger at the given level (debug, info, warn,
// error). Blank or unknown levels log at info.
func NewLogger(verbosity string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(verbosity)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	return l.Sugar()
}

// leveledLogger lets go-retryablehttp log through zap.
type leveledLogger struct {
	l *zap.SugaredLogger
}

func (a leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	a.l.Errorw(msg, keysAndValues...)
}

func (a leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	a.l.Infow(msg, keysAndValues...)
}

func (a leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debugw(msg, keysAndValues...)
}

func (a leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	a.l.Warnw(msg, keysAndValues...)
}
