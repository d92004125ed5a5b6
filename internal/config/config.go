// Package config resolves the workspace root and user preferences.
//
// The workspace root is resolved once at startup and held immutable for the
// process lifetime: --workspace flag > WORKSPACE_PATH env > config file >
// built-in default.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvWorkspace selects the workspace root written by the agent process.
	EnvWorkspace = "WORKSPACE_PATH"
	// EnvRefresh overrides the dashboard refresh interval, in seconds.
	EnvRefresh = "MISSIONCTL_REFRESH"

	// DefaultWorkspace is where the Alfred agent keeps its workspace.
	DefaultWorkspace = "/root/clawd"
	// DefaultRefresh is the interval between automatic data reloads.
	DefaultRefresh = 30 * time.Second
)

// Settings holds user-level preferences stored in ~/.missionctl/config.json.
type Settings struct {
	WorkspacePath  string `json:"workspace_path,omitempty"`
	RefreshSeconds int    `json:"refresh_seconds,omitempty"`
}

// Dir returns the missionctl config directory (~/.missionctl), creating it
// if needed.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	dir := filepath.Join(home, ".missionctl")
	os.MkdirAll(dir, 0755)
	return dir
}

func settingsPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads ~/.missionctl/config.json, returning empty settings if the
// file is absent.
func Load() (*Settings, error) {
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes settings to ~/.missionctl/config.json.
func Save(s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0644)
}

// ResolveWorkspace returns the workspace root, applying the precedence
// flag > environment > config file > default. The flag value may be empty.
func ResolveWorkspace(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return filepath.Clean(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkspace)); v != "" {
		return filepath.Clean(v)
	}
	if s, err := Load(); err == nil {
		if v := strings.TrimSpace(s.WorkspacePath); v != "" {
			return filepath.Clean(v)
		}
	}
	return DefaultWorkspace
}

// ResolveRefresh returns the dashboard refresh interval, applying the
// precedence environment > config file > default. Values below one second
// fall back to the default.
func ResolveRefresh() time.Duration {
	if v := strings.TrimSpace(os.Getenv(EnvRefresh)); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 1 {
			return time.Duration(secs) * time.Second
		}
	}
	if s, err := Load(); err == nil && s.RefreshSeconds >= 1 {
		return time.Duration(s.RefreshSeconds) * time.Second
	}
	return DefaultRefresh
}
