package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Default values
const (
	DefaultMaxConcurrent = 3
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8000
	DefaultLogLevel      = "info"
)

// Environment variable overrides, applied on top of the settings file.
const (
	EnvDownloadDir = "FLOWDL_DOWNLOAD_DIR"
	EnvHost        = "FLOWDL_HOST"
	EnvPort        = "FLOWDL_PORT"
	EnvLogLevel    = "FLOWDL_LOG_LEVEL"
)

// Settings holds all persisted configuration options.
type Settings struct {
	DownloadDir   string `json:"download_dir"`   // empty means OS default
	MaxConcurrent int    `json:"max_concurrent"` // parallel download ceiling
	ShowUI        bool   `json:"show_ui"`        // live dashboard on startup
	LogLevel      string `json:"log_level"`      // "info" | "debug" | "quiet"
	Host          string `json:"host"`
	Port          int    `json:"port"`
	DisableUpdate bool   `json:"disable_update"` // skip background tool update
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		MaxConcurrent: DefaultMaxConcurrent,
		ShowUI:        true,
		LogLevel:      DefaultLogLevel,
		Host:          DefaultHost,
		Port:          DefaultPort,
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flowdl.json"
	}
	return filepath.Join(dir, "flowdl", "config.json")
}

// Load reads settings from a JSON file, falling back to defaults when the
// file does not exist. Environment overrides are applied last.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	settings.applyEnv()
	settings.clamp()
	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvDownloadDir); v != "" {
		s.DownloadDir = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		s.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Port = port
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
}

func (s *Settings) clamp() {
	if s.MaxConcurrent < 1 {
		s.MaxConcurrent = DefaultMaxConcurrent
	}
	if s.MaxConcurrent > 10 {
		s.MaxConcurrent = 10
	}
	if s.Port <= 0 || s.Port > 65535 {
		s.Port = DefaultPort
	}
	if s.Host == "" {
		s.Host = DefaultHost
	}
}
