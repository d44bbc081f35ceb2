// Package logs builds the process-wide slog.Logger from configuration.
package logs

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"tradelink/config"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates the logger. JSON output is the default; the pretty flag
// switches to the text handler for local development.
func New(cfg *config.Config) (*slog.Logger, error) {
	level, ok := levels[strings.ToLower(cfg.Env.Log.Level)]
	if !ok {
		return nil, errors.Errorf("unknown log level: %q", cfg.Env.Log.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.Env.Log.Pretty {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler), nil
}
