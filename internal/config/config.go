package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "LOOTRANDOMIZER_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath selects a file.
const DefaultPath = "config/lootrandomizer.yaml"

// Randomizer holds all configuration for the randomizer.
type Randomizer struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	Seed     int64  `yaml:"seed"`

	// Catalog and pool assignments
	CatalogPath     string   `yaml:"catalog_path"` // empty: embedded catalog
	AssignmentsPath string   `yaml:"assignments_path"`
	EnabledTags     []string `yaml:"enabled_tags"`

	// Scripted session to replay against the simulated engine
	ReplayPath string `yaml:"replay_path"`

	Database DatabaseConfig `yaml:"database"`
	Gist     GistConfig     `yaml:"gist"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// GistConfig configures the seed tracker. An empty token disables it.
type GistConfig struct {
	Token   string        `yaml:"token"`
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultRandomizer returns Randomizer config with sensible defaults.
func DefaultRandomizer() Randomizer {
	return Randomizer{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "lootrandomizer",
			Password: "lootrandomizer",
			DBName:   "lootrandomizer",
			SSLMode:  "disable",
		},
		Gist: GistConfig{
			APIURL:  "https://api.github.com/gists",
			Timeout: 10 * time.Second,
		},
	}
}

// LoadRandomizer loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadRandomizer(path string) (Randomizer, error) {
	cfg := DefaultRandomizer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Path returns the config path: flagValue if set, then EnvPath, then
// DefaultPath.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (r Randomizer) SlogLevel() slog.Level {
	switch strings.ToLower(r.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
