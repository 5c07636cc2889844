package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConfigFileName is the telemetry state file inside the litedo root
// directory. It is kept apart from the task cache so clearing tasks never
// resets consent.
const ConfigFileName = "telemetry.json"

// Config holds the opt-in state.
type Config struct {
	Enabled bool `json:"enabled"`

	// ConsentAsked is set once the user has answered, either way.
	ConsentAsked bool `json:"consent_asked"`

	// AnonymousID is a random UUID generated on first load.
	AnonymousID string `json:"anonymous_id"`
}

// ConfigPath returns the telemetry file path under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// LoadConfig reads the telemetry state from dir. A missing file yields a
// disabled config with a fresh anonymous id.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.AnonymousID = uuid.New().String()
			return cfg, nil
		}
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse telemetry config: %w", err)
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes the state to dir with owner-only permissions.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create telemetry directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(dir), data, 0o600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// Enable turns telemetry on and records that consent was asked.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns telemetry off and records that consent was asked.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent reports whether the user has not answered yet.
func (c *Config) NeedsConsent() bool {
	return !c.ConsentAsked
}

func (c *Config) IsEnabled() bool {
	return c.Enabled
}
