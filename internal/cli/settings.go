package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the defaults advisorctl reads from its config file.
type Settings struct {
	Server   string `yaml:"server"`
	APIKey   string `yaml:"apiKey"`
	UserID   string `yaml:"userId"`
	LeagueID string `yaml:"leagueId"`
	RosterID string `yaml:"rosterId"`
}

// DefaultSettingsPath returns ~/.config/advisorctl/config.yaml or its
// platform equivalent.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "advisorctl", "config.yaml")
}

// LoadSettings reads path. A missing file yields empty settings. ADVISOR_URL
// and ADVISOR_API_KEY override the file.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read settings: %w", err)
		default:
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("ADVISOR_URL"); v != "" {
		s.Server = v
	}
	if v := os.Getenv("ADVISOR_API_KEY"); v != "" {
		s.APIKey = v
	}
	if s.Server == "" {
		s.Server = "http://localhost:8080"
	}
	return s, nil
}

// Save writes the settings to path, creating parent directories.
func (s *Settings) Save(path string) error {
	if path == "" {
		return fmt.Errorf("settings path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
