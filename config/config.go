package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "taskboard.yaml"

// Config aggregates all runtime settings.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Redis    RedisConfig   `yaml:"redis"`
	Logger   LoggerConfig  `yaml:"logger"`
	Timezone string        `yaml:"timezone"`
}

type StorageConfig struct {
	Driver     string        `yaml:"driver"`
	DataDir    string        `yaml:"data_dir"`
	KeyPrefix  string        `yaml:"key_prefix"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxBackups int           `yaml:"max_backups"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Load reads .env (if present), then the YAML file at path (or
// TASKBOARD_CONFIG, or ./taskboard.yaml when it exists), then applies
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	file := resolvePath(path)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Storage.Driver = getString("TASKBOARD_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DataDir = getString("TASKBOARD_DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.KeyPrefix = getString("TASKBOARD_KEY_PREFIX", cfg.Storage.KeyPrefix)
	cfg.Storage.Timeout = getDuration("TASKBOARD_STORAGE_TIMEOUT", cfg.Storage.Timeout)
	cfg.Storage.MaxBackups = getInt("TASKBOARD_MAX_BACKUPS", cfg.Storage.MaxBackups)
	cfg.Redis.URL = getString("TASKBOARD_REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getString("TASKBOARD_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getInt("TASKBOARD_REDIS_DB", cfg.Redis.DB)
	cfg.Timezone = getString("TASKBOARD_TIMEZONE", cfg.Timezone)
	cfg.Logger.Level = getString("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Encoding = getString("LOG_ENCODING", cfg.Logger.Encoding)

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return err
		}
		c.Storage.DataDir = dir
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "taskboard:"
	}
	if c.Storage.Timeout <= 0 {
		c.Storage.Timeout = 2 * time.Second
	}
	if c.Storage.MaxBackups == 0 {
		c.Storage.MaxBackups = 10
	}
	if c.Redis.URL == "" {
		c.Redis.URL = "redis://localhost:6379/0"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "warn"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "console"
	}
	return nil
}

// Location resolves Timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func resolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("TASKBOARD_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// defaultDataDir uses the XDG data directory, falling back to ~/.local/share.
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskboard"), nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
