package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/taskventure/internal/model"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskventure.log")

	logger, err := New(model.LogConfig{Debug: true, File: path})
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}
	logger.Debug("reminder scheduled")
	_ = Sync(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"reminder scheduled"`) {
		t.Fatalf("expected JSON debug entry, got %q", data)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tv.log")

	logger, err := New(model.LogConfig{Development: true, File: path})
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = Sync(logger)

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestSync_NilLogger(t *testing.T) {
	if err := Sync(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
