package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cookingapp/pkg/models"
)

// Config holds the cookingapp service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the storage driver. For sqlite3 the DSN is a file
// path and COOKINGAPP_DB_PATH overrides it.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3, pgx
	DSN    string `yaml:"dsn"`
}

type DiscoveryConfig struct {
	TimeoutMs       int             `yaml:"timeout_ms"`
	UserAgent       string          `yaml:"user_agent"`
	Workers         int             `yaml:"workers"`
	Cache           CacheConfig     `yaml:"cache"`
	FallbackMarkets []models.Market `yaml:"fallback_markets"`
}

type CacheConfig struct {
	Driver string   `yaml:"driver"` // none, memory, redis
	Addrs  []string `yaml:"addrs"`
	TTLSec int      `yaml:"ttl_sec"`
}

// EventsConfig is the raw TCP change feed. Websocket subscribers use /ws on
// the HTTP port.
type EventsConfig struct {
	TCPAddr string `yaml:"tcp_addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (d DiscoveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// Load reads config/<env>.yaml, expands ${VAR} references, applies
// defaults and validates.
func Load(env string) (Config, error) {
	path := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw YAML the same way Load does.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns ENV, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite3"
	}
	if c.Database.Driver == "sqlite3" {
		if p := os.Getenv("COOKINGAPP_DB_PATH"); p != "" {
			c.Database.DSN = p
		}
		if c.Database.DSN == "" {
			home, err := os.UserHomeDir()
			if err != nil || home == "" {
				home = "."
			}
			c.Database.DSN = filepath.Join(home, ".cookingapp", "data.db")
		}
	}
	if c.Discovery.TimeoutMs <= 0 {
		c.Discovery.TimeoutMs = 7000
	}
	if c.Discovery.UserAgent == "" {
		c.Discovery.UserAgent = "Mozilla/5.0 (compatible; CookingAppBot/1.0)"
	}
	if c.Discovery.Workers <= 0 {
		c.Discovery.Workers = 4
	}
	if c.Discovery.Cache.Driver == "" {
		c.Discovery.Cache.Driver = "none"
	}
	if c.Discovery.Cache.TTLSec <= 0 {
		c.Discovery.Cache.TTLSec = 600
	}
	if c.Events.TCPAddr == "" {
		c.Events.TCPAddr = ":7070"
	}
	for i := range c.Discovery.FallbackMarkets {
		m := &c.Discovery.FallbackMarkets[i]
		m.City = strings.TrimSpace(m.City)
		m.Name = strings.TrimSpace(m.Name)
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("database.driver must be \"sqlite3\" or \"pgx\", got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.Discovery.Cache.Driver {
	case "none", "memory":
	case "redis":
		if len(c.Discovery.Cache.Addrs) == 0 {
			return fmt.Errorf("discovery.cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("discovery.cache.driver must be none, memory or redis, got %q", c.Discovery.Cache.Driver)
	}
	for i, m := range c.Discovery.FallbackMarkets {
		if m.City == "" || m.Name == "" {
			return fmt.Errorf("discovery.fallback_markets[%d]: city and supermarket_name are required", i)
		}
	}
	return nil
}

func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to this source file, for tests run from package dirs.
	_, b, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(root, "config", filename); fileExists(path) {
		return path
	}
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default}.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
