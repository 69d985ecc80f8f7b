package logger_test

import (
	"errors"

	"github.com/wonny/tollcalc/pkg/config"
	"github.com/wonny/tollcalc/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Datasets loaded")
	log.Infof("Validated %d groups", 12)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithDataset("datasets/dataset-2.csv", 9254).
		WithFields(map[string]interface{}{
			"dropped": 3,
			"groups":  2,
		}).
		Info("Coverage check finished")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("missing required column: endTime")
	log.WithError(err).Error("Failed to read interval records")
}
