package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level  string // debug|info|warn|error
	Format string // console|json
	// File, when set, receives all log output instead of stderr. The TUI always
	// logs to a file so output never lands on the alternate screen.
	File string
}

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(opts.Level)))); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if strings.EqualFold(opts.Format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if f := strings.TrimSpace(opts.File); f != "" {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{f}
		cfg.ErrorOutputPaths = []string{f}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

// Nop is used where no logger was configured (tests, library defaults).
func Nop() *zap.Logger { return zap.NewNop() }
