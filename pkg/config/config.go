// Package config loads visionboard settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file ($XDG_CONFIG_HOME/visionboard/config.toml, or --config)
//  3. .env.local and .env in the working directory
//  4. VISIONBOARD_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # File format
//
//	[export]
//	scale = 2.0
//	background = "#1a1a2e"
//	use_cors = true
//	allow_taint = true
//	output_dir = "."
//
//	[server]
//	addr = ":8080"
//	session_ttl = "1h"
//	redis_url = "redis://localhost:6379/0"
//
//	[cache]
//	dir = "~/.cache/visionboard"
//	ttl = "24h"
//	disabled = false
//
//	[log]
//	level = "info"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/session"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VISIONBOARD_"

// Config is the full configuration.
type Config struct {
	Export ExportConfig `toml:"export"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ExportConfig controls capture and encoding.
type ExportConfig struct {
	Scale       float64 `toml:"scale"`
	Background  string  `toml:"background"`
	UseCORS     bool    `toml:"use_cors"`
	AllowTaint  bool    `toml:"allow_taint"`
	JPEGQuality int     `toml:"jpeg_quality"`
	OutputDir   string  `toml:"output_dir"`
	Origin      string  `toml:"origin"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
	RedisURL   string        `toml:"redis_url"`
}

// CacheConfig controls the image and artifact cache.
type CacheConfig struct {
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
	Disabled bool          `toml:"disabled"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Scale:       export.DefaultScale,
			Background:  export.DefaultBackground,
			UseCORS:     true,
			AllowTaint:  true,
			JPEGQuality: export.DefaultJPEGQuality,
			OutputDir:   ".",
			Origin:      "http://localhost",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: session.DefaultTTL,
		},
		Cache: CacheConfig{
			TTL: cache.TTLImage,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/visionboard/config.toml or the OS
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "visionboard", "config.toml")
}

// Load builds the configuration. An empty path uses [DefaultPath], which
// may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := cfg.ReadFile(path); err != nil {
				return nil, err
			}
		}
	}

	LoadDotEnv()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes the TOML file at path over cfg.
func (c *Config) ReadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %s", path, undecoded[0])
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Export.Scale <= 0 || c.Export.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "export.scale must be in (0, 8], got %v", c.Export.Scale)
	}
	if _, err := export.ParseColor(c.Export.Background); err != nil {
		return err
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "export.jpeg_quality must be in [1, 100], got %d", c.Export.JPEGQuality)
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.session_ttl must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log.level")
	}
	return nil
}

// CaptureOptions converts the export section.
func (c *Config) CaptureOptions() (export.CaptureOptions, error) {
	bg, err := export.ParseColor(c.Export.Background)
	if err != nil {
		return export.CaptureOptions{}, err
	}
	return export.CaptureOptions{
		UseCORS:    c.Export.UseCORS,
		AllowTaint: c.Export.AllowTaint,
		Background: bg,
		Scale:      c.Export.Scale,
	}, nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// CacheDir returns the cache directory with ~ expanded. Empty means the
// cache package default.
func (c *Config) CacheDir() string {
	dir := c.Cache.Dir
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	return dir
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return sb.String()
}
