// Package config loads pfannkuchen settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/pfannkuchen/config.toml (falling back
// to ~/.config/pfannkuchen/config.toml). A missing file is not an error:
// [Default] values apply. Command-line flags override whatever is loaded.
//
// Example file:
//
//	[compute]
//	chunks = 150
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "720h"
//
//	[history]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "pfannkuchen"
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pfannkuchen/pkg/cache"
	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
)

const appName = "pfannkuchen"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// History backends.
const (
	HistoryFile   = "file"
	HistoryMongo  = "mongo"
	HistoryMemory = "memory"
	HistoryNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	Compute Compute `toml:"compute"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
	Server  Server  `toml:"server"`
}

// Compute holds scheduling defaults. Zero values mean "use the built-in default".
type Compute struct {
	Chunks  int `toml:"chunks"`
	Workers int `toml:"workers"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// History selects and configures the run history store.
type History struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("720h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Compute: Compute{Chunks: fannkuch.DefaultChunks},
		Cache:   Cache{Backend: CacheFile, TTL: Duration{cache.TTLResult}},
		History: History{Backend: HistoryFile},
		Server:  Server{Addr: ":8080"},
	}
}

// Load reads path on top of Default. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at Path.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks backend names, URLs and compute settings.
func (c *Config) Validate() error {
	if err := pkgerrors.ValidateChunks(c.Compute.Chunks); err != nil {
		return err
	}
	if err := pkgerrors.ValidateWorkers(c.Compute.Workers); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := pkgerrors.ValidateBackendURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidBackend, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.History.Backend {
	case HistoryFile, HistoryMemory, HistoryNone:
	case HistoryMongo:
		if err := pkgerrors.ValidateBackendURL(c.History.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidBackend, "unknown history backend %q", c.History.Backend)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location.
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the directory for the file cache (~/.cache/pfannkuchen).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the directory for persistent data such as run history
// (~/.local/share/pfannkuchen).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ResolvedCacheDir returns Cache.Dir or CacheDir.
func (c *Config) ResolvedCacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// ResolvedHistoryDir returns History.Dir or DataDir/runs.
func (c *Config) ResolvedHistoryDir() (string, error) {
	if c.History.Dir != "" {
		return c.History.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "runs"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
