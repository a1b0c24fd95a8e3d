package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Stderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Level: slog.LevelWarn, Stderr: &buf})
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("failed to save to storage", "key", "schedules")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, "key=schedules") {
		t.Errorf("missing warn record: %s", out)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelcast.log")
	logger, closer := New(Options{Level: slog.LevelInfo, File: path})

	logger.Info("studio state loaded", "schedules", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "schedules=2") {
		t.Errorf("log file missing record: %s", data)
	}
}
