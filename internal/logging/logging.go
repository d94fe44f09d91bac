// Package logging builds the application logger. The server logs to
// stderr; the TUI logs to a file (or nothing) so output never corrupts
// the terminal alt-screen.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewServer returns a production logger writing to stderr at the given
// level.
func NewServer(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if err := setLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// NewTUI returns a logger writing to path, or a no-op logger when path is
// empty.
func NewTUI(level, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if err := setLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

func setLevel(cfg *zap.Config, level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return nil
}
