package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration. Values resolve in order: defaults,
// then the TOML config file, then environment variables.
type Config struct {
	ServerURL      string `toml:"server_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DataDir        string `toml:"data_dir"`
	LogLevel       string `toml:"log_level"`
	Debug          bool   `toml:"debug"`
}

// Load reads configuration from the given TOML file (the default location is
// used when path is empty; a missing file at the default location is fine)
// and applies environment overrides. A .env file is loaded first if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		ServerURL:      "http://localhost:8000",
		TimeoutSeconds: 60,
		DataDir:        defaultDataDir(),
		LogLevel:       "INFO",
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.ServerURL = getEnv("TOPICCHAT_SERVER_URL", cfg.ServerURL)
	cfg.TimeoutSeconds = getEnvAsInt("TOPICCHAT_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	cfg.DataDir = getEnv("TOPICCHAT_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnv("TOPICCHAT_LOG_LEVEL", cfg.LogLevel)

	if cfg.ServerURL == "" {
		return Config{}, fmt.Errorf("server URL must not be empty")
	}

	return cfg, nil
}

// Timeout is the per-request timeout for backend calls
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabasePath is the location of the local client database
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "topicchat.db")
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "topicchat")
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
