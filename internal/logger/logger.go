package logger

import (
	"os"

	"edu-classroom/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.Logger

// Initialize sets up the logger with the given configuration
func Initialize(loggerCfg config.LoggerConfig) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel := zapcore.InfoLevel
	if err := logLevel.Set(loggerCfg.Level); err != nil && loggerCfg.Level != "" {
		logLevel = zapcore.InfoLevel
	}

	var stdoutCore zapcore.Core
	if loggerCfg.Env == "production" {
		// Production: JSON format
		stdoutCore = zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			logLevel,
		)
	} else {
		// Development: Console format
		stdoutCore = zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			logLevel,
		)
	}

	core := stdoutCore
	if loggerCfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   loggerCfg.File,
			MaxSize:    loggerCfg.MaxSizeMB,
			MaxBackups: loggerCfg.MaxBackups,
			MaxAge:     loggerCfg.MaxAgeDays,
			Compress:   true,
		})
		core = zapcore.NewTee(stdoutCore, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			logLevel,
		))
	}

	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Get returns the global logger instance. Before Initialize it returns a
// no-op logger so packages can log from tests.
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync flushes any buffered log entries
func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}
