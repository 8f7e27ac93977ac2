// Package logging builds the process logger from settings.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"r2r/internal/config"
)

// New returns a zap logger writing to stderr. Format "json" selects the
// production encoder, anything else the console encoder.
func New(settings config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(settings.Level)
	if err != nil {
		return nil, fmt.Errorf("SET_LOGGING_LEVEL: %w", err)
	}
	var zc zap.Config
	switch strings.ToLower(settings.Format) {
	case "json":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
