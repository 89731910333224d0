package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "taromancer"

// LLMConfig holds the chat-completion endpoint settings
type LLMConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HistoryConfig holds the history store settings
type HistoryConfig struct {
	Path      string `mapstructure:"path"`
	CacheSize int    `mapstructure:"cache_size"`
}

// Config represents the application configuration.
// Values come from defaults, the config file, .env, the environment and flags.
type Config struct {
	HTTPAddr string        `mapstructure:"http_addr"`
	LogLevel string        `mapstructure:"log_level"`
	Locale   string        `mapstructure:"locale"`
	BotToken string        `mapstructure:"bot_token"`
	LLM      LLMConfig     `mapstructure:"llm"`
	History  HistoryConfig `mapstructure:"history"`
}

// fileConfig is the layout of config.toml
type fileConfig struct {
	HTTPAddr string `toml:"http_addr"`
	LogLevel string `toml:"log_level"`
	Locale   string `toml:"locale"`
	LLM      struct {
		BaseURL string `toml:"base_url"`
		Model   string `toml:"model"`
		Timeout string `toml:"timeout"`
	} `toml:"llm"`
	History struct {
		CacheSize int `toml:"cache_size"`
	} `toml:"history"`
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// GetHistoryPath returns the default path of the history database
func GetHistoryPath() string {
	return filepath.Join(GetXDGDataHome(), appName, "history.db")
}

// Init prepares viper: it loads .env into the environment, maps config keys
// to environment variables (llm.base_url is LLM_BASE_URL) and reads the
// config file. An empty cfgFile selects the XDG config file, creating it with
// defaults when missing.
func Init(cfgFile string) error {
	_ = godotenv.Load()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("http_addr", "HTTP_ADDR", "PORT")

	if cfgFile == "" {
		cfgFile = GetConfigFilePath()
		if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
			if err := createDefaultConfig(cfgFile); err != nil {
				// Read-only home directories still get defaults.
				return nil
			}
		}
	}

	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("toml")
	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file %s: %w", cfgFile, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("http_addr", ":3001")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("locale", "ru")
	viper.SetDefault("bot_token", "")
	viper.SetDefault("llm.base_url", "http://localhost:11434/v1")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.model", "gemma3:1b")
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("history.path", GetHistoryPath())
	viper.SetDefault("history.cache_size", 256)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.LLM.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid llm.timeout %s: must be positive", cfg.LLM.Timeout)
	}
	cfg.LLM.BaseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	if cfg.HTTPAddr != "" && !strings.Contains(cfg.HTTPAddr, ":") {
		cfg.HTTPAddr = ":" + cfg.HTTPAddr
	}

	return cfg, nil
}

// ParseLogLevel converts a level name into a slog.Level
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) error {
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var fc fileConfig
	fc.HTTPAddr = ":3001"
	fc.LogLevel = "info"
	fc.Locale = "ru"
	fc.LLM.BaseURL = "http://localhost:11434/v1"
	fc.LLM.Model = "gemma3:1b"
	fc.LLM.Timeout = "60s"
	fc.History.CacheSize = 256

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}
