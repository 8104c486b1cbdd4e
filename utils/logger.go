package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures the application logger.
type LogOptions struct {
	// Level is a zap level name ("debug", "info", "warn", "error"). Defaults to info.
	Level string `json:"level" yaml:"level"`
	// File enables a rotating log file instead of stdout.
	File       string `json:"file" yaml:"file"`
	MaxSize    int    `json:"maxSize" yaml:"maxSize"` // megabytes
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAge     int    `json:"maxAge" yaml:"maxAge"` // days
	Compress   bool   `json:"compress" yaml:"compress"`
}

// NewLogger builds a JSON zap logger writing to stdout or to a lumberjack
// rotated file.
func NewLogger(opts LogOptions) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}

	var writer zapcore.WriteSyncer
	if opts.File != "" {
		writer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		})
	} else {
		writer = zapcore.Lock(os.Stdout)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level)

	return zap.New(core, zap.AddCaller()), nil
}

// RedisLogger forwards go-redis internal messages to zap at debug level so
// connection failures don't spam the log.
type RedisLogger struct {
	Logger *zap.Logger
}

// Printf implements the go-redis internal logging interface.
func (l *RedisLogger) Printf(ctx context.Context, format string, v ...interface{}) {
	if l.Logger == nil {
		return
	}
	l.Logger.Debug(fmt.Sprintf(format, v...), zap.String("component", "redis"))
}
