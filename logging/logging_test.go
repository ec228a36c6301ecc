package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	if err := Init(false, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Close() })

	ctx := context.Background()
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("debug logging should be disabled without --verbose")
	}

	if err := Init(true, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("debug logging should be enabled with --verbose")
	}
}

func TestInitLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spicat.log")
	if err := Init(true, path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	slog.Debug("bus configured", "speed_hz", 1000000)

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "bus configured") {
		t.Errorf("expected log line in file, got: %s", data)
	}
}

func TestInitLogFileUnwritable(t *testing.T) {
	if err := Init(false, "/nonexistent/dir/spicat.log"); err == nil {
		t.Error("expected an error for an unwritable log file path")
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := Init(false, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close without a log file should be a no-op, got: %v", err)
	}
}
