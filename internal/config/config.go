// Package config resolves client settings from defaults, a TOML file, the
// environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendHTTP = "http"
	BackendFile = "file"

	DirName        = ".tada"
	ConfigFileName = "config.toml"
	LogFileName    = "tada.log"
)

// Config holds the effective client settings.
type Config struct {
	Backend  string    `toml:"backend"`
	APIURL   string    `toml:"api_url"`
	DataFile string    `toml:"data_file"`
	Timeout  Duration  `toml:"timeout"`
	Theme    string    `toml:"theme"`
	Log      LogConfig `toml:"log"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Dir returns ~/.tada.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns the user config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func Defaults() *Config {
	cfg := &Config{
		Backend: BackendHTTP,
		APIURL:  "http://localhost:3000/api",
		Timeout: Duration{10 * time.Second},
		Theme:   "classic",
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
	if dir, err := Dir(); err == nil {
		cfg.Log.File = filepath.Join(dir, LogFileName)
	}
	return cfg
}

// Load applies defaults, then the file at path (a missing file is not an
// error), then the environment. An empty path uses DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadFromEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TADA_BACKEND")); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("TADA_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_DATA_FILE")); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TADA_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout.Duration = d
	}
	if v := strings.TrimSpace(os.Getenv("TADA_THEME")); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
		}
	case BackendFile:
	default:
		return fmt.Errorf("invalid backend %q: must be one of http, file", c.Backend)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// WriteExample writes the current settings as a TOML file at path. It
// refuses to overwrite an existing file.
func (c *Config) WriteExample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString("# tada client configuration\n"); err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
