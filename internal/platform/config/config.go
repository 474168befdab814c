package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultBackend         = BackendFile
	DefaultLogLevel        = "info"
	DefaultDailySessions   = 3
	DefaultDailyMinutes    = 30
	DefaultWeeklySessions  = 7
	DefaultProviderRefresh = "@every 1h"
	DefaultDataDirName     = ".fivepillars"
)

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Timezone  string          `yaml:"timezone"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Goals     GoalsConfig     `yaml:"goals"`
	Providers ProvidersConfig `yaml:"providers"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

type LogConfig struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type GoalsConfig struct {
	DailySessions  int `yaml:"daily_sessions"`
	DailyMinutes   int `yaml:"daily_minutes"`
	WeeklySessions int `yaml:"weekly_sessions"`
}

type ProvidersConfig struct {
	ManifestPath string `yaml:"manifest_path"`
	Refresh      string `yaml:"refresh"`
}

// New returns the defaults rooted at dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			Backend:    DefaultBackend,
			SQLitePath: filepath.Join(dataDir, "fivepillars.db"),
		},
		Log: LogConfig{
			File:  filepath.Join(dataDir, "logs", "fivepillars.log"),
			Level: DefaultLogLevel,
		},
		Goals: GoalsConfig{
			DailySessions:  DefaultDailySessions,
			DailyMinutes:   DefaultDailyMinutes,
			WeeklySessions: DefaultWeeklySessions,
		},
		Providers: ProvidersConfig{
			ManifestPath: filepath.Join(dataDir, "providers", "providers.json"),
			Refresh:      DefaultProviderRefresh,
		},
	}, nil
}

// DefaultDataDir is ~/.fivepillars, falling back to the working directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}

// Load layers defaults, the optional YAML file, a .env file in the data dir
// and FIVEPILLARS_* environment variables, in that order.
func Load(dataDir, configPath string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if configPath == "" {
		configPath = filepath.Join(dataDir, "config.yaml")
	}
	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	envPath := filepath.Join(dataDir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envPath, err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg, dataDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FIVEPILLARS_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("FIVEPILLARS_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("FIVEPILLARS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("FIVEPILLARS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FIVEPILLARS_LOG_CONSOLE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Console = parsed
		}
	}
	if v := os.Getenv("FIVEPILLARS_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("FIVEPILLARS_DAILY_SESSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Goals.DailySessions = parsed
		}
	}
	if v := os.Getenv("FIVEPILLARS_DAILY_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Goals.DailyMinutes = parsed
		}
	}
	if v := os.Getenv("FIVEPILLARS_WEEKLY_SESSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Goals.WeeklySessions = parsed
		}
	}
	if v := os.Getenv("FIVEPILLARS_PROVIDER_REFRESH"); v != "" {
		cfg.Providers.Refresh = v
	}
}

func applyDefaults(cfg *Config, dataDir string) {
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.DataDir, "fivepillars.db")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Goals.DailySessions <= 0 {
		cfg.Goals.DailySessions = DefaultDailySessions
	}
	if cfg.Goals.DailyMinutes <= 0 {
		cfg.Goals.DailyMinutes = DefaultDailyMinutes
	}
	if cfg.Goals.WeeklySessions <= 0 {
		cfg.Goals.WeeklySessions = DefaultWeeklySessions
	}
	if cfg.Providers.ManifestPath == "" {
		cfg.Providers.ManifestPath = filepath.Join(cfg.DataDir, "providers", "providers.json")
	}
	if cfg.Providers.Refresh == "" {
		cfg.Providers.Refresh = DefaultProviderRefresh
	}
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone; empty means the host's local zone.
func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StorageDir is where the file backend keeps one JSON document per key.
func (c Config) StorageDir() string {
	return filepath.Join(c.DataDir, "store")
}

// JournalDir is the root of exported session notes.
func (c Config) JournalDir() string {
	return filepath.Join(c.DataDir, "journal")
}
