// Package config loads user settings for the callsurface CLI and server.
//
// Settings live in a TOML file at $XDG_CONFIG_HOME/callsurface/config.toml
// (~/.config/callsurface/config.toml when XDG_CONFIG_HOME is unset). A
// missing file is not an error: every field has a default, and keys present
// in the file override only themselves.
//
//	[surface]
//	width = 390
//	bottom_inset = 34
//	animated = true
//
//	[cache]
//	backend = "redis"
//	redis = { addr = "localhost:6379" }
//
//	[log]
//	file = "/var/log/callsurface.log"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/callsurface/pkg/cache"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/i18n"
	"github.com/matzehuels/callsurface/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "callsurface"

// Defaults for the log file rotation and the preview server.
const (
	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 3
	DefaultServerAddr    = "localhost:8080"
)

// Config is the full settings file.
type Config struct {
	Surface Surface       `toml:"surface"`
	Cache   cache.Options `toml:"cache"`
	Log     Log           `toml:"log"`
	Server  Server        `toml:"server"`

	// Strings is a TOML string catalog replacing the built-in English one.
	Strings string `toml:"strings,omitempty"`
}

// Surface holds the default container geometry.
type Surface struct {
	Width       float64 `toml:"width"`
	BottomInset float64 `toml:"bottom_inset"`
	Animated    bool    `toml:"animated"`
}

// Log configures the optional rotating log file.
type Log struct {
	File       string `toml:"file,omitempty"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Server configures `callsurface serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	dir, _ := CacheDir()
	return Config{
		Surface: Surface{
			Width:       pipeline.DefaultWidth,
			BottomInset: pipeline.DefaultBottomInset,
			Animated:    true,
		},
		Cache: cache.Options{
			Backend: cache.BackendFile,
			Dir:     dir,
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
			Mongo:   cache.MongoConfig{URI: "mongodb://localhost:27017", Database: AppName},
		},
		Log: Log{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
		Server: Server{Addr: DefaultServerAddr},
	}
}

// Dir returns the config directory using XDG standard (~/.config/callsurface/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/callsurface/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if err := errors.ValidateWidth(c.Surface.Width); err != nil {
		return err
	}
	if err := errors.ValidateInset(c.Surface.BottomInset); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "log rotation limits cannot be negative")
	}
	return nil
}

// Catalog loads the configured string catalog, or English when none is set.
func (c *Config) Catalog() (*i18n.Catalog, error) {
	if c.Strings == "" {
		return i18n.English(), nil
	}
	return i18n.Load(c.Strings)
}

// Options returns pipeline options seeded from the surface settings.
func (c *Config) Options() pipeline.Options {
	inset := c.Surface.BottomInset
	return pipeline.Options{
		Width:       c.Surface.Width,
		BottomInset: &inset,
		Immediate:   !c.Surface.Animated,
	}
}
