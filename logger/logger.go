// Package logger builds the zap logger of the attr tool.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sonwamoh/perfomance-attribution/config"
)

// New returns a logger writing to stderr, or to a rotated file when cfg.File
// is set. An unknown level falls back to info.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.File != "" {
		return zap.New(zapcore.NewCore(encoder(cfg), zapcore.AddSync(rotate(cfg)), level), zap.AddCaller()), nil
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig(cfg),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build()
}

// rotate returns the file writer of cfg.
func rotate(cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   os.ExpandEnv(cfg.File),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

func encoderConfig(cfg config.LogConfig) zapcore.EncoderConfig {
	if cfg.Encoding == "console" {
		return zap.NewDevelopmentEncoderConfig()
	}
	return zap.NewProductionEncoderConfig()
}

func encoder(cfg config.LogConfig) zapcore.Encoder {
	if cfg.Encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig(cfg))
	}
	return zapcore.NewJSONEncoder(encoderConfig(cfg))
}

// OrNop returns l, or a logger discarding everything when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
