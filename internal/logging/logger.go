// Package logging builds the zap logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the encoder and minimum level.
type Config struct {
	Development bool   `mapstructure:"development" yaml:"development"`
	Level       string `mapstructure:"level" yaml:"level"`
}

// Option adjusts how New builds the logger.
type Option func(*options)

type options struct {
	w io.Writer
}

// WithWriter sends log entries to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.w = w }
}

// New builds a zap.Logger writing to stderr; stdout stays reserved for the
// command's own output. Stack traces are never attached: failures reach the
// user as a single diagnostic line.
func New(cfg Config, opts ...Option) (*zap.Logger, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.DisableStacktrace = true
	zc.EncoderConfig.TimeKey = "ts"
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	if level := strings.TrimSpace(cfg.Level); level != "" {
		parsed, err := zap.ParseAtomicLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		zc.Level = parsed
	}

	var buildOpts []zap.Option
	if o.w != nil {
		enc := zapcore.NewJSONEncoder(zc.EncoderConfig)
		if zc.Encoding == "console" {
			enc = zapcore.NewConsoleEncoder(zc.EncoderConfig)
		}
		core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(o.w)), zc.Level)
		buildOpts = append(buildOpts, zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))
	}

	logger, err := zc.Build(buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
