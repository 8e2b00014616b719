package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Notifications.Authorized || cfg.Notifications.PollIntervalSec != 30 || cfg.Display.UpcomingLimit != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Storage.DBPath = "/tmp/tv.db"
	cfg.Notifications.Authorized = false
	cfg.Notifications.Mail.Enabled = true
	cfg.Notifications.Mail.Host = "imap.example.com"
	cfg.Log.Debug = true

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Storage.DBPath != "/tmp/tv.db" || got.Notifications.Authorized ||
		!got.Notifications.Mail.Enabled || got.Notifications.Mail.Host != "imap.example.com" || !got.Log.Debug {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestLoadConfigClampsIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("notifications:\n  poll_interval_sec: 0\ndisplay:\n  upcoming_limit: -1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Notifications.PollIntervalSec != 30 || cfg.Display.UpcomingLimit != 5 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error")
	}
}
