// Package config loads acnh configuration.
//
// Order: defaults -> .acnh/config.yml -> explicit --config file -> environment
// -> derived defaults -> path resolution -> validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/corey/acnh/internal/domain/selection"
)

// Storage backends.
const (
	BackendBolt   = "bbolt"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`

	// Root is the project root the relative paths were resolved against.
	Root string `yaml:"-"`
	// Sources lists the config files that were read, in order.
	Sources []string `yaml:"-"`
}

// CatalogConfig locates the item catalog export.
type CatalogConfig struct {
	Path  string `yaml:"path" validate:"required"`
	Watch bool   `yaml:"watch"`
}

// StorageConfig selects the persistence substrate for selection state.
type StorageConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=bbolt sqlite"`
	Path    string `yaml:"path"`
	Key     string `yaml:"key" validate:"required"`
}

// SearchConfig tunes the interactive search loop.
type SearchConfig struct {
	Debounce       time.Duration `yaml:"debounce" validate:"gte=0"`
	HighlightOpen  string        `yaml:"highlight_open"`
	HighlightClose string        `yaml:"highlight_close"`
}

// ServerConfig configures `acnh serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=json console"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:  filepath.Join(DirName, "items.json"),
			Watch: true,
		},
		Storage: StorageConfig{
			Backend: BackendBolt,
			Key:     selection.DefaultKey,
		},
		Search: SearchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7474",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration for projectRoot. explicit, when non-empty,
// names a config file that must exist.
func Load(projectRoot, explicit string) (*Config, error) {
	cfg := Default()
	cfg.Root = projectRoot

	paths := NewPaths(projectRoot)
	if err := cfg.loadFile(paths.Config, false); err != nil {
		return nil, err
	}
	if explicit != "" {
		if err := cfg.loadFile(explicit, true); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyDerived(paths)
	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Sources = append(c.Sources, path)
	return nil
}

// ApplyEnvOverrides applies ACNH_* environment variables on top of the
// file configuration.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("ACNH_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("ACNH_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ACNH_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ACNH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ACNH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ACNH_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("ACNH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ACNH_DEBOUNCE: %w", err)
		}
		c.Search.Debounce = d
	}
	return nil
}

// applyDerived fills values whose default depends on other settings.
func (c *Config) applyDerived(paths *Paths) {
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			c.Storage.Path = paths.SQLiteDB
		default:
			c.Storage.Path = paths.BoltDB
		}
	}
}

// resolvePaths makes relative file paths absolute against Root.
func (c *Config) resolvePaths() {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) && c.Root != "" {
			*p = filepath.Join(c.Root, *p)
		}
	}
	resolve(&c.Catalog.Path)
	resolve(&c.Storage.Path)
	resolve(&c.Log.File)
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// YAML renders the resolved configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
