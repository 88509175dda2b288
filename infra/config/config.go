package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultService  = "https://bsky.social"
	defaultStream   = "wss://jetstream2.us-east.bsky.network/subscribe"
	defaultPageSize = 50
	maxPageSize     = 100
)

// Config holds application-level configuration.
type Config struct {
	ServiceURL    string // e.g. "https://bsky.social"
	StreamURL     string // Jetstream websocket endpoint
	StreamEnabled bool
	ShowImages    bool
	PageSize      int

	Identifier string // handle or email used to log in
	Password   string // app password; empty means prompt

	Dir         string // config directory
	SessionPath string
	UIStatePath string
	LogPath     string
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	Service struct {
		URL        string `toml:"url"`
		Identifier string `toml:"identifier"`
	} `toml:"service"`
	Stream struct {
		URL     string `toml:"url"`
		Enabled *bool  `toml:"enabled"`
	} `toml:"stream"`
	UI struct {
		Images   *bool `toml:"images"`
		PageSize int   `toml:"page_size"`
	} `toml:"ui"`
}

// Load builds the configuration from defaults, <dir>/config.toml and the environment.
//
//	SKYLINE_CONFIG_DIR  config directory (default: $XDG_CONFIG_HOME/skyline or ~/.config/skyline)
//	SKYLINE_SERVICE     PDS / entryway URL (default: https://bsky.social)
//	SKYLINE_STREAM      Jetstream URL for live notifications
//	BSKY_IDENTIFIER     handle or email to log in with
//	BSKY_PASSWORD       app password
func Load() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	path := filepath.Join(dir, "config.toml")
	if _, err := toml.DecodeFile(path, &fc); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := Config{
		ServiceURL:    firstNonEmpty(os.Getenv("SKYLINE_SERVICE"), fc.Service.URL, defaultService),
		StreamURL:     firstNonEmpty(os.Getenv("SKYLINE_STREAM"), fc.Stream.URL, defaultStream),
		StreamEnabled: true,
		ShowImages:    true,
		PageSize:      defaultPageSize,
		Identifier:    firstNonEmpty(os.Getenv("BSKY_IDENTIFIER"), fc.Service.Identifier),
		Password:      os.Getenv("BSKY_PASSWORD"),
		Dir:           dir,
		SessionPath:   filepath.Join(dir, "session.json"),
		UIStatePath:   filepath.Join(dir, "ui_state.json"),
		LogPath:       filepath.Join(dir, "skyline.log"),
	}
	if fc.Stream.Enabled != nil {
		cfg.StreamEnabled = *fc.Stream.Enabled
	}
	if fc.UI.Images != nil {
		cfg.ShowImages = *fc.UI.Images
	}
	if fc.UI.PageSize > 0 {
		cfg.PageSize = min(fc.UI.PageSize, maxPageSize)
	}

	if cfg.ServiceURL, err = normalizeURL(cfg.ServiceURL, "service", "https"); err != nil {
		return Config{}, err
	}
	if cfg.StreamURL, err = normalizeURL(cfg.StreamURL, "stream", "wss", "ws"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configDir() (string, error) {
	if dir := os.Getenv("SKYLINE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "skyline"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "skyline"), nil
}

func normalizeURL(raw, name string, schemes ...string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid %s url %q: must be an absolute URL", name, raw)
	}
	for _, s := range schemes {
		if parsed.Scheme == s {
			return strings.TrimRight(parsed.String(), "/"), nil
		}
	}
	return "", fmt.Errorf("invalid %s url %q: scheme must be one of %s", name, raw, strings.Join(schemes, ", "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// UIState is UI preference state persisted between runs.
type UIState struct {
	HideImages bool `json:"hide_images,omitempty"`
}

// LoadUIState reads UI state; a missing file yields the zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UIState{}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes UI state, creating the directory if needed.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
