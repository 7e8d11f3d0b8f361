package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv registers the restore; unset so the defaults apply.
	t.Setenv("LARDER_DB_PATH", "")
	t.Setenv("LARDER_LOG_LEVEL", "")
	os.Unsetenv("LARDER_DB_PATH")
	os.Unsetenv("LARDER_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "larder.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "larder.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LARDER_DB_PATH", "/tmp/test.db")
	t.Setenv("LARDER_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}
