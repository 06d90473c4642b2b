// Package logging builds the client's zap logger: a rotating JSON file core
// plus a console core for interactive use.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates the client logger. The file core always records at info level;
// the console core stays quiet unless debug is set, so the interactive chat
// output is not interleaved with log lines.
func New(logFile string, debug bool) *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)

	cores := []zapcore.Core{fileCore}
	if debug {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zap.DebugLevel,
		)
		cores = append(cores, consoleCore)
	}

	return zap.New(zapcore.NewTee(cores...))
}
