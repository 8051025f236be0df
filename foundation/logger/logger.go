// Package logger constructs the structured logger used across the node
// service, the wallet CLI, and the worker loops.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a SugaredLogger tagged with service and component, writing
// to stdout (or the given outputPaths) with human-readable ISO8601
// timestamps and no stack traces on error-level logs.
func New(service, component string, outputPaths ...string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]interface{}{
		"service":   service,
		"component": component,
	}

	config.OutputPaths = []string{"stdout"}
	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
	}

	built, err := config.Build(zap.WithCaller(true))
	if err != nil {
		return nil, err
	}

	return built.Sugar(), nil
}
