package config

import (
	"case-map-service/internal/visual"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCasesURL = "https://disease.sh/v3/covid-19/jhucsse"
	DefaultAtlasURL = "https://unpkg.com/world-atlas@1.1.4/world/110m.json"
	DefaultTitle    = visual.DefaultTitle
)

// Config holds the service settings. Values come from defaults, then the
// optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Port string `yaml:"port"`

	Cases  CasesConfig  `yaml:"cases"`
	Atlas  AtlasConfig  `yaml:"atlas"`
	Map    MapConfig    `yaml:"map"`
	Store  StoreConfig  `yaml:"store"`
	Minio  MinioConfig  `yaml:"minio"`
	Logger LoggerConfig `yaml:"logging"`
}

// CasesConfig selects the case record source. File wins over URL when set.
type CasesConfig struct {
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

type AtlasConfig struct {
	URL      string        `yaml:"url"`
	Cache    string        `yaml:"cache"` // none, sqlite, postgres, redis
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type MapConfig struct {
	Title              string `yaml:"title"`
	MissingFieldPolicy string `yaml:"missing_field_policy"`
}

type StoreConfig struct {
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`
	RedisAddr   string `yaml:"redis_addr"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:   "8080",
		Cases:  CasesConfig{URL: DefaultCasesURL},
		Atlas:  AtlasConfig{URL: DefaultAtlasURL, Cache: "none", CacheTTL: 24 * time.Hour},
		Map:    MapConfig{Title: DefaultTitle, MissingFieldPolicy: "skip"},
		Store:  StoreConfig{DBPath: "data/casemap.db"},
		Logger: LoggerConfig{Level: "info"},
	}
}

// LoadDotEnv loads a .env file when present. The error is returned rather
// than logged because callers load it before the logger is configured.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Get returns the environment value for key or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load builds the effective configuration.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = Get("PORT", c.Port)
	c.Cases.URL = Get("CASES_URL", c.Cases.URL)
	c.Cases.File = Get("CASES_FILE", c.Cases.File)
	c.Atlas.URL = Get("ATLAS_URL", c.Atlas.URL)
	c.Atlas.Cache = strings.ToLower(Get("ATLAS_CACHE", c.Atlas.Cache))
	c.Map.Title = Get("MAP_TITLE", c.Map.Title)
	c.Map.MissingFieldPolicy = Get("MISSING_FIELD_POLICY", c.Map.MissingFieldPolicy)
	c.Store.DBPath = Get("DB_PATH", c.Store.DBPath)
	c.Store.DatabaseURL = Get("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.RedisAddr = Get("REDIS_ADDR", c.Store.RedisAddr)
	c.Minio.Endpoint = Get("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = Get("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = Get("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Logger.Level = Get("LOG_LEVEL", c.Logger.Level)

	if v := os.Getenv("ATLAS_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("load config: ATLAS_CACHE_TTL: %w", err)
		}
		c.Atlas.CacheTTL = ttl
	}

	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("load config: MINIO_USE_SSL: %w", err)
		}
		c.Minio.UseSSL = useSSL
	}

	return nil
}

// Validate checks that the selected atlas cache has what it needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Cases.URL) == "" && strings.TrimSpace(c.Cases.File) == "" {
		return errors.New("config: one of CASES_URL or CASES_FILE is required")
	}
	if strings.TrimSpace(c.Atlas.URL) == "" {
		return errors.New("config: ATLAS_URL is required")
	}
	if c.Atlas.CacheTTL <= 0 {
		return errors.New("config: ATLAS_CACHE_TTL must be positive")
	}

	switch c.Atlas.Cache {
	case "", "none":
	case "sqlite":
		if strings.TrimSpace(c.Store.DBPath) == "" {
			return errors.New("config: DB_PATH is required for the sqlite atlas cache")
		}
	case "postgres":
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required for the postgres atlas cache")
		}
	case "redis":
		if strings.TrimSpace(c.Store.RedisAddr) == "" {
			return errors.New("config: REDIS_ADDR is required for the redis atlas cache")
		}
	default:
		return fmt.Errorf("config: unknown ATLAS_CACHE %q", c.Atlas.Cache)
	}

	return nil
}
