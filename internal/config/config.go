// Package config loads the loom.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/loom-ui/loom/pkg/bridge"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "loom.toml"

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("loom: config file not found")

// Duration wraps time.Duration so TOML values can be written as "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete loom.toml schema.
type Config struct {
	// Name is the project name, used in log output.
	Name string `toml:"name"`

	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	MetricsPath string   `toml:"metrics_path"`
	Origins     []string `toml:"allowed_origins"`
}

// SessionConfig holds per-session limits and timeouts.
type SessionConfig struct {
	MaxSessions  int      `toml:"max_sessions"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	PingInterval Duration `toml:"ping_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Default returns the configuration used when no loom.toml exists.
func Default() *Config {
	return &Config{
		Name: "loom",
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			MetricsPath: "/metrics",
		},
		Session: SessionConfig{
			ReadTimeout:  Duration(60 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			PingInterval: Duration(30 * time.Second),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loom: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads loom.toml from dir, falling back to defaults when
// the file is missing.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, ConfigFileName))
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("loom: invalid port %d", c.Server.Port)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("loom: invalid log format %q", c.Log.Format)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Bridge translates the file schema into the bridge server's config.
func (c *Config) Bridge() bridge.Config {
	return bridge.Config{
		Addr:           c.Addr(),
		MetricsPath:    c.Server.MetricsPath,
		AllowedOrigins: c.Server.Origins,
		MaxSessions:    c.Session.MaxSessions,
		ReadTimeout:    c.Session.ReadTimeout.Std(),
		WriteTimeout:   c.Session.WriteTimeout.Std(),
		PingInterval:   c.Session.PingInterval.Std(),
	}
}

// Logger builds an slog.Logger per the log settings, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("loom: invalid log level %q", s)
}
