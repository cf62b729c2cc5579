package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rmcom/logger"

	"github.com/spf13/viper"
)

// DefaultRemovalLogName is the removal log written in the invocation
// directory when --log is not given and no config overrides it.
const DefaultRemovalLogName = "removed_comments.json"

type DefaultPaths struct {
	ConfigDir  string
	LogPathApp string
	DBPath     string
	LogLevel   string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port    string `mapstructure:"port"`
		LogPath string `mapstructure:"log_path"`
	} `mapstructure:"server"`
	Log struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"log"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Strip struct {
		PreserveDirectives bool `mapstructure:"preserve_directives"`
	} `mapstructure:"strip"`
	History struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"history"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	userConfigDir, err := expandTilde(userConfigDirBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in user config dir '%s': %v. Using potentially literal path.\n", userConfigDirBase, err)
		userConfigDir = userConfigDirBase
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "rmcom")
	paths.LogPathApp = filepath.Join(paths.ConfigDir, "logs", "app.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "rmcom.db")
	paths.LogLevel = "INFO"
	return paths
}

func Init(cfgFile string, flagAppLogPath, flagLogLevel string) error {
	v := viper.New()

	defaults := GetDefaultConfigPaths()
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8790")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("log.path", DefaultRemovalLogName)
	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("strip.preserve_directives", true)
	v.SetDefault("history.enabled", true)

	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expandedCfgFile = cfgFile
		}
		v.SetConfigFile(expandedCfgFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("RMCOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
		}
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error unmarshalling configuration: %v\n", err)
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Apply flag overrides
	if flagAppLogPath != "" {
		expandedPath, err := expandTilde(flagAppLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --app-log path '%s': %v. Using original path.\n", flagAppLogPath, err)
			AppConfig.Server.LogPath = flagAppLogPath
		} else {
			AppConfig.Server.LogPath = expandedPath
		}
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	// Expand tilde for paths read from config that might contain it
	var err error
	AppConfig.Database.Path, err = expandTilde(AppConfig.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", AppConfig.Database.Path, err)
	}
	AppConfig.Log.Path, err = expandTilde(AppConfig.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in log.path '%s': %v.\n", AppConfig.Log.Path, err)
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(AppConfig.Server.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final app log directory %s: %v\n", filepath.Dir(AppConfig.Server.LogPath), err)
	}
	if err := os.MkdirAll(defaults.ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory %s: %v\n", defaults.ConfigDir, err)
	}

	// Initialize/Re-initialize loggers
	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if readErr != nil && cfgFile != "" {
		logger.Error("Error occurred reading specified config file '%s': %v", cfgFile, readErr)
	}
	if !AppConfig.Strip.PreserveDirectives {
		logger.Warn("Directive preservation DISABLED: shebang, coding, type and noqa comments will be stripped too.")
	}
	if !AppConfig.History.Enabled {
		logger.Info("Run history recording DISABLED.")
	}

	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}
