package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bimbuddy/internal/config"
)

// New creates a *slog.Logger from cfg and sets it as the default logger.
//
// The terminal belongs to the UI, so records go to cfg.File. An empty path or
// "-" discards them. The returned close func releases the file.
func New(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	out, closeFn, err := openOutput(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(newHandler(out, cfg))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text") && parseLevel(cfg.Level) == slog.LevelDebug,
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func openOutput(path string) (io.Writer, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return io.Discard, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return f, f.Close, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
