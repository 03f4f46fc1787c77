package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. debug switches to the human readable
// development encoder at debug level.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return cfg.Build()
}

// Must is New for main, where a logger that cannot be built is fatal.
func Must(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	return l
}
