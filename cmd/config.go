package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/litedo/internal/config"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/viper"
)

const (
	configName = ".litedo"
	envPrefix  = "LITEDO"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	return validate.Struct(cfg)
}

// setDefaults registers every configuration default with viper.
func setDefaults() {
	rootDir, err := config.GetGlobalConfigDir()
	if err != nil {
		rootDir = configName
	}
	viper.SetDefault("project.rootDir", rootDir)
	viper.SetDefault("data.cacheFile", "cache.db")
	viper.SetDefault("data.exportFormat", "json")
	viper.SetDefault("sync.debounceMs", 400)
	viper.SetDefault("sync.reloadIntervalMs", 5000)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.file", "logs/litedo.log")
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., LITEDO_PROJECT_ROOTDIR
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(configName); err == nil {
			viper.AddConfigPath(configName) // ./.litedo/.litedo.yaml
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home) // $HOME/.litedo.yaml
		}
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFileFlag != "" && os.IsNotExist(err):
			fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
		case cfgFileFlag == "" && errors.As(err, &notFound):
			LogError("No config file found. Using defaults and environment variables.", nil)
		default:
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	setDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		HandleFatalError("Error unmarshaling config.", err)
	}
	resolvePaths(&GlobalAppConfig)

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		HandleFatalError(fmt.Sprintf("Configuration validation error: %s", err), err)
	}
}

// resolvePaths expands ~ in the root dir and anchors the log file under it.
func resolvePaths(cfg *types.AppConfig) {
	if strings.HasPrefix(cfg.Project.RootDir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Project.RootDir = filepath.Join(home, strings.TrimPrefix(cfg.Project.RootDir, "~"))
		}
	}
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(cfg.Project.RootDir, cfg.Log.File)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
