// Package logger builds the structured application logger with file rotation
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/amirphl/reachbee/config"
)

// New builds a zap logger from the logging section of the configuration.
// Output "stdout" writes only to the console, "file" only to the rotated file and "both" tees the two.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := ParseLevel(cfg.Level)

	var cores []zapcore.Core
	switch cfg.Output {
	case "", "stdout":
		cores = append(cores, zapcore.NewCore(encoder(cfg.Format), zapcore.AddSync(os.Stdout), level))
	case "file":
		cores = append(cores, zapcore.NewCore(encoder("json"), fileWriter(cfg), level))
	case "both":
		cores = append(cores,
			zapcore.NewCore(encoder(cfg.Format), zapcore.AddSync(os.Stdout), level),
			zapcore.NewCore(encoder("json"), fileWriter(cfg), level),
		)
	default:
		return nil, fmt.Errorf("unsupported log output %q", cfg.Output)
	}

	opts := []zap.Option{}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

// ParseLevel converts a level name to a zapcore.Level, defaulting to info
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoder(format string) zapcore.Encoder {
	if format == "console" {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

func fileWriter(cfg config.LoggingConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	})
}

// WithRequestID returns the request id field used across handlers and flows
func WithRequestID(requestID string) zap.Field {
	return zap.String("request_id", requestID)
}

// WithTrackingID returns the email tracking id field
func WithTrackingID(trackingID string) zap.Field {
	return zap.String("tracking_id", trackingID)
}
