package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
	SeedDemo   bool             `yaml:"seed_demo"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type StorageConfig struct {
	// Backend selects the Store implementation: redis, sqlite, memory or
	// none (writes are discarded).
	Backend string       `yaml:"backend"`
	Redis   RedisConfig  `yaml:"redis"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig holds the closed option sets the booking form draws from.
// They are configuration data, not code: deployments adjust them without
// touching domain logic.
type CatalogConfig struct {
	Venues       []string `yaml:"venues"`
	Companies    []string `yaml:"companies"`
	Designations []string `yaml:"designations"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expanded, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Backend)) {
	case "redis":
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("storage.redis.address is required for the redis backend")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required for the sqlite backend")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	return ValidateCatalog(c.Catalog)
}

// ValidateCatalog rejects duplicate or blank catalog entries.
func ValidateCatalog(catalog CatalogConfig) error {
	for _, group := range []struct {
		name   string
		values []string
	}{
		{"venues", catalog.Venues},
		{"companies", catalog.Companies},
		{"designations", catalog.Designations},
	} {
		seen := make(map[string]bool, len(group.values))
		for _, v := range group.values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("catalog.%s contains a blank entry", group.name)
			}
			if seen[v] {
				return fmt.Errorf("catalog.%s contains duplicate entry %q", group.name, v)
			}
			seen[v] = true
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "venuedesk"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if len(c.Catalog.Venues) == 0 {
		c.Catalog.Venues = DefaultVenues()
	}
	if len(c.Catalog.Companies) == 0 {
		c.Catalog.Companies = DefaultCompanies()
	}
	if len(c.Catalog.Designations) == 0 {
		c.Catalog.Designations = DefaultDesignations()
	}
}
