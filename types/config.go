/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Sync      SyncConfig      `mapstructure:"sync" validate:"required"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds local cache and export settings
type DataConfig struct {
	CacheFile    string `mapstructure:"cacheFile" validate:"required"`
	ExportFormat string `mapstructure:"exportFormat" validate:"required,oneof=json yaml toml md"`
}

// SyncConfig holds external file synchronization timing.
type SyncConfig struct {
	DebounceMs       int `mapstructure:"debounceMs" validate:"min=0,max=60000"`
	ReloadIntervalMs int `mapstructure:"reloadIntervalMs" validate:"min=2000"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	File   string `mapstructure:"file"`
}

// TelemetryConfig holds the analytics transport settings. Whether events are
// sent at all is governed by the user's consent file, not by this config.
type TelemetryConfig struct {
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}
