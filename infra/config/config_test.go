package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SKYLINE_SERVICE", "SKYLINE_STREAM", "BSKY_IDENTIFIER", "BSKY_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SKYLINE_CONFIG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceURL != "https://bsky.social" || !cfg.StreamEnabled || !cfg.ShowImages {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.PageSize != 50 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize)
	}
	if cfg.SessionPath != filepath.Join(dir, "session.json") || cfg.LogPath != filepath.Join(dir, "skyline.log") {
		t.Fatalf("paths must live in config dir: %#v", cfg)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SKYLINE_CONFIG_DIR", dir)
	file := `
[service]
url = "https://pds.example.com/"
identifier = "alice.example.com"

[stream]
enabled = false

[ui]
images = false
page_size = 500
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(file), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceURL != "https://pds.example.com" {
		t.Fatalf("service must come from file and be normalized: %q", cfg.ServiceURL)
	}
	if cfg.StreamEnabled || cfg.ShowImages || cfg.PageSize != 100 {
		t.Fatalf("unexpected file overrides: %#v", cfg)
	}
	if cfg.Identifier != "alice.example.com" {
		t.Fatalf("identifier from file expected: %q", cfg.Identifier)
	}

	t.Setenv("SKYLINE_SERVICE", "https://other.example.com")
	t.Setenv("BSKY_IDENTIFIER", "bob.example.com")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceURL != "https://other.example.com" || cfg.Identifier != "bob.example.com" {
		t.Fatalf("env must override file: %#v", cfg)
	}
}

func TestLoad_RejectsBadURLs(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKYLINE_CONFIG_DIR", t.TempDir())

	t.Setenv("SKYLINE_SERVICE", "http://insecure.local")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-https service")
	}

	t.Setenv("SKYLINE_SERVICE", "")
	t.Setenv("SKYLINE_STREAM", "https://not-a-socket.example.com")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-websocket stream url")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SKYLINE_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[service\nurl="), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected toml parse error")
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{HideImages: true}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}
