// Package logger is the process-wide structured logger, backed by zap.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// Init builds a production logger (JSON, info level) for production environments and a
// development logger (console, debug level) everywhere else.
func Init(environment string) {
	var (
		base *zap.Logger
		err  error
	)

	switch strings.ToLower(environment) {
	case "production", "prod":
		base, err = zap.NewProduction()
	default:
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}

	log = base.Sugar()
}

// L returns the underlying logger.
func L() *zap.SugaredLogger {
	return log
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() error {
	return log.Sync()
}

func Debug(msg string, args ...any) {
	log.Debugw(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Fatalw(msg, normalize(args)...)
}

// normalize lets callers pass a bare error as the only argument.
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{zap.Error(err)}
		}
	}

	return args
}

// GormWriter feeds gorm's logger into this one.
type GormWriter struct{}

func (GormWriter) Printf(format string, args ...any) {
	log.Infof(strings.TrimSpace(format), args...)
}
