package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"json to stdout", config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"text to stderr", config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}},
		{"empty config falls back to defaults", config.LoggingConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if logger := New(tt.cfg, "1.0.0"); logger == nil {
				t.Fatal("New() returned nil")
			}
		})
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			if got := levelFromString(tt.input); got != tt.want {
				t.Errorf("levelFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriterFor(t *testing.T) {
	if writerFor("stderr") != os.Stderr {
		t.Error("writerFor(stderr) should return os.Stderr")
	}
	if writerFor("stdout") != os.Stdout {
		t.Error("writerFor(stdout) should return os.Stdout")
	}
	if writerFor("") != os.Stdout {
		t.Error("writerFor should default to os.Stdout")
	}
}

func TestWith(t *testing.T) {
	logger := Default()
	child := logger.With("component", "registry")

	if child == nil {
		t.Fatal("With() returned nil")
	}
	if child == logger {
		t.Error("With() should return a distinct logger")
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}

// TestRecordShape captures a record through a buffer-backed handler
// (New writes only to stdout/stderr) and checks the stamped fields and
// the caller-supplied attributes survive JSON encoding.
func TestRecordShape(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}).
		WithAttrs([]slog.Attr{
			slog.String("service", serviceName),
			slog.String("version", "test"),
		})
	logger := &Logger{Logger: slog.New(handler)}

	logger.Info("profile resolved",
		"slug", "gpu-workers",
		"spec", "/job:worker/device:GPU:0",
		"duration_us", 120,
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if record["service"] != serviceName {
		t.Errorf("service = %v, want %s", record["service"], serviceName)
	}
	if record["version"] != "test" {
		t.Errorf("version = %v, want test", record["version"])
	}
	if record["msg"] != "profile resolved" {
		t.Errorf("msg = %v, want profile resolved", record["msg"])
	}
	if record["slug"] != "gpu-workers" {
		t.Errorf("slug = %v, want gpu-workers", record["slug"])
	}
	if record["spec"] != "/job:worker/device:GPU:0" {
		t.Errorf("spec = %v, want /job:worker/device:GPU:0", record["spec"])
	}
}

// TestLevelFiltering checks that a debug record is dropped by an
// info-level handler, mirroring the default production configuration.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: levelFromString("info")})
	logger := &Logger{Logger: slog.New(handler)}

	logger.Debug("cache refresh detail", "profiles", 7)
	if buf.Len() != 0 {
		t.Errorf("debug record should be filtered at info level, got %s", buf.String())
	}

	logger.Warn("mqtt disconnected", "error", "broken pipe")
	if !strings.Contains(buf.String(), "mqtt disconnected") {
		t.Errorf("warn record missing from output: %s", buf.String())
	}
}
