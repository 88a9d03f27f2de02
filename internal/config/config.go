package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/catalog-browser/catalog/internal/catalog"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Media   MediaConfig   `mapstructure:"media"`
	Scope   ScopeConfig   `mapstructure:"scope"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Locale  string        `mapstructure:"locale"`
	Facets  []string      `mapstructure:"facets"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// DataConfig names the catalog sources
type DataConfig struct {
	Catalog    string `mapstructure:"catalog"`
	MediaIndex string `mapstructure:"media_index"`
	CountsURL  string `mapstructure:"counts_url"`
}

// MediaConfig controls media matching and serving
type MediaConfig struct {
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
	Optional  bool   `mapstructure:"optional"`
}

// ScopeConfig restricts the catalog to one category page
type ScopeConfig struct {
	Column string `mapstructure:"column"`
	Value  string `mapstructure:"value"`
	Match  string `mapstructure:"match"`
}

// FetchConfig controls remote source requests
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MinSessionTTL is the shortest idle timeout accepted for viewer sessions
const MinSessionTTL = time.Second

// EnvPrefix prefixes every environment variable override, e.g. CATALOG_SERVER_PORT
const EnvPrefix = "CATALOG"

// New returns a viper instance with defaults and environment bindings applied
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration from file and environment variables into v and decodes it.
// Priority: flags bound to v > environment variables > config file > defaults
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		expanded, err := homedir.Expand(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "catalog"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("server.session_ttl", 12*time.Hour)

	v.SetDefault("data.catalog", "data/BK.csv")
	v.SetDefault("data.media_index", "data/media-index.json")
	v.SetDefault("data.counts_url", "")

	v.SetDefault("media.dir", "media")
	v.SetDefault("media.url_prefix", "/media/")
	v.SetDefault("media.optional", false)

	v.SetDefault("scope.column", "category")
	v.SetDefault("scope.value", "")
	v.SetDefault("scope.match", string(catalog.MatchEquals))

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.retries", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)

	v.SetDefault("locale", "uk")
	v.SetDefault("facets", []string{"type", "affiliation"})
}

// Validate checks values that cannot be repaired with defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if ttl := c.Server.SessionTTL; ttl != 0 && ttl < MinSessionTTL {
		return fmt.Errorf("invalid server.session_ttl %s (0 disables pruning, otherwise at least %s)", ttl, MinSessionTTL)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("invalid fetch.retries %d", c.Fetch.Retries)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return c.CatalogScope().Validate()
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Language returns the collation language, falling back to Ukrainian
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Ukrainian
	}
	return tag
}

// CatalogScope converts the scope settings
func (c *Config) CatalogScope() catalog.Scope {
	return catalog.Scope{
		Column: c.Scope.Column,
		Value:  c.Scope.Value,
		Match:  catalog.MatchMode(c.Scope.Match),
	}
}

// Sources converts the data settings into loader sources
func (c *Config) Sources() catalog.Sources {
	return catalog.Sources{
		Catalog:       c.Data.Catalog,
		MediaIndex:    c.Data.MediaIndex,
		MediaOptional: c.Media.Optional,
	}
}
