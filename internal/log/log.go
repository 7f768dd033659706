// Package log provides the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the package-level logger. Debug switches to the development
// config with human-readable output.
func Init(debug bool) error {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		logger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("initializing zap logger: %w", err)
	}
	sugar = logger.Sugar()
	return nil
}

func logger() *zap.SugaredLogger {
	if sugar == nil {
		base, _ := zap.NewProduction(zap.AddCallerSkip(1))
		sugar = base.Sugar()
	}
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

func Debugf(template string, args ...interface{}) { logger().Debugf(template, args...) }

func Debugw(msg string, keysAndValues ...interface{}) { logger().Debugw(msg, keysAndValues...) }

func Infof(template string, args ...interface{}) { logger().Infof(template, args...) }

func Infow(msg string, keysAndValues ...interface{}) { logger().Infow(msg, keysAndValues...) }

func Warnf(template string, args ...interface{}) { logger().Warnf(template, args...) }

func Warnw(msg string, keysAndValues ...interface{}) { logger().Warnw(msg, keysAndValues...) }

func Errorf(template string, args ...interface{}) { logger().Errorf(template, args...) }

func Errorw(msg string, keysAndValues ...interface{}) { logger().Errorw(msg, keysAndValues...) }

func Fatalf(template string, args ...interface{}) { logger().Fatalf(template, args...) }
