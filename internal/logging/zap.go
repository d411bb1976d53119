// File: internal/logging/zap.go
// Author: momentics <momentics@gmail.com>
//
// zap logger builders shared by the ringstage binaries.

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDevLogger returns a console logger at debug level.
func NewDevLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	apply(&cfg)
	return cfg.Build()
}

// NewProdLogger returns a JSON logger at info level.
func NewProdLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	apply(&cfg)
	return cfg.Build()
}

// New picks the dev logger when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return NewDevLogger()
	}
	return NewProdLogger()
}

func apply(cfg *zap.Config) {
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	// stdout carries staged payload in ringstage
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
}
