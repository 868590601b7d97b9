package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
)

// serviceName tags every record so placementd logs are filterable when
// aggregated with other placegrid services.
const serviceName = "placementd"

// Logger is placementd's structured logger: slog with the service name
// and build version stamped onto every record. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml.
// Format selects JSON (default) or text records; output selects stdout
// (default) or stderr.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(cfg).WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

func newHandler(cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: levelFromString(cfg.Level)}
	out := writerFor(cfg.Output)

	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// levelFromString maps a config level string onto slog.Level.
// Unrecognised values fall back to info rather than failing startup.
func levelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying extra default attributes, e.g.
// logger.With("component", "registry").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a JSON info-level logger for the window between
// process start and config load.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}
