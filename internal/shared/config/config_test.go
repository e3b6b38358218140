package config

import (
	"os"
	"path/filepath"
	"testing"

	"proxyist/internal/shared/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.ini"))
	if err != nil {
		t.Fatalf("LoadOrDefault() returned an error: %v", err)
	}
	if cfg.SourceConf.URL != types.DefaultSourceURL {
		t.Errorf("Expected default URL, but got '%s'", cfg.SourceConf.URL)
	}
	if cfg.SourceConf.TimeoutSeconds != types.DefaultTimeoutSeconds {
		t.Errorf("Expected default timeout %d, but got %d", types.DefaultTimeoutSeconds, cfg.SourceConf.TimeoutSeconds)
	}
}

func TestLoadOrDefault_IniOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "proxyist.ini", `
[log]
level = debug

[source]
engine = colly
timeout_seconds = 5

[pool]
strict_random = true

[web]
port = 9999
user = admin
password = secret
`)

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() returned an error: %v", err)
	}
	if cfg.LogConf.Level != "debug" {
		t.Errorf("Expected level 'debug', but got '%s'", cfg.LogConf.Level)
	}
	if cfg.SourceConf.Engine != "colly" {
		t.Errorf("Expected engine 'colly', but got '%s'", cfg.SourceConf.Engine)
	}
	if cfg.SourceConf.URL != types.DefaultSourceURL {
		t.Errorf("Expected URL to keep its default, but got '%s'", cfg.SourceConf.URL)
	}
	if cfg.SourceConf.TimeoutSeconds != 5 {
		t.Errorf("Expected timeout 5, but got %d", cfg.SourceConf.TimeoutSeconds)
	}
	if !cfg.PoolConf.StrictRandom {
		t.Error("Expected strict_random to be true")
	}
	if cfg.WebConf.Port != 9999 || cfg.WebConf.User != "admin" || cfg.WebConf.Password != "secret" {
		t.Errorf("Unexpected web config: %+v", cfg.WebConf)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PROXYIST_SOURCE_URL", "http://mirror.local/list")
	t.Setenv("PROXYIST_TIMEOUT_SECONDS", "7")
	t.Setenv("PROXYIST_WEB_PORT", "not-a-number")

	cfg := types.DefaultConfig()
	ApplyEnv(cfg)

	if cfg.SourceConf.URL != "http://mirror.local/list" {
		t.Errorf("Expected URL from env, but got '%s'", cfg.SourceConf.URL)
	}
	if cfg.SourceConf.TimeoutSeconds != 7 {
		t.Errorf("Expected timeout 7, but got %d", cfg.SourceConf.TimeoutSeconds)
	}
	if cfg.WebConf.Port != types.DefaultWebPort {
		t.Errorf("Expected invalid port override to be ignored, but got %d", cfg.WebConf.Port)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "PROXYIST_ENGINE=colly\n")
	os.Unsetenv("PROXYIST_ENGINE")
	t.Cleanup(func() { os.Unsetenv("PROXYIST_ENGINE") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() returned an error: %v", err)
	}

	cfg := types.DefaultConfig()
	ApplyEnv(cfg)
	if cfg.SourceConf.Engine != "colly" {
		t.Errorf("Expected engine 'colly' from .env, but got '%s'", cfg.SourceConf.Engine)
	}
}

func TestLoadDotEnv_NoFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("Expected no error for a missing .env, but got %v", err)
	}
}
