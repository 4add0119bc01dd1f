// SPDX-License-Identifier: MIT

// Package logging builds the zap logger used by the crystalsym command.
//
// Library packages never log through a global; they accept a *zap.Logger
// (symmetry.WithLogger) and default to zap.NewNop. This package only turns
// the log.* configuration keys into such a logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrBadLevel is returned for an unknown log level name.
var ErrBadLevel = errors.New("logging: unknown level")

// Options selects the logger flavor.
//
// Level: debug, info, warn, error ("" = info).
// JSON:  structured JSON output instead of the console encoder.
type Options struct {
	Level string
	JSON  bool
}

// ParseLevel maps a level name onto a zapcore.Level.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(ErrBadLevel, "%q", s)
	}

	return lvl, nil
}

// New returns a logger writing to stderr, keeping stdout free for reports.
func New(opts Options) (*zap.Logger, error) {
	return NewWithWriter(opts, os.Stderr)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(opts Options, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}
