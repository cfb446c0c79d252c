// Package config loads budgetsync settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all budgetsync configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	User       UserConfig       `toml:"user"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig points the client at the budget tracker service.
type APIConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// UserConfig identifies the signed-in user.
type UserConfig struct {
	ID int64 `toml:"id"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Language string `toml:"language"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig configures the bundled reference service.
type ServerConfig struct {
	Addr             string   `toml:"addr"`
	DBPath           string   `toml:"db_path,omitempty"`
	CORSAllowOrigins []string `toml:"cors_allow_origins,omitempty"`
	EnablePprof      bool     `toml:"enable_pprof"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Environment variables that override the file.
const (
	EnvAPIURL      = "BUDGETSYNC_API_URL"
	EnvUserID      = "BUDGETSYNC_USER_ID"
	EnvLang        = "BUDGETSYNC_LANG"
	EnvDBPath      = "BUDGETSYNC_DB_PATH"
	EnvCORSOrigins = "CORS_ALLOW_ORIGINS"
	EnvPprof       = "ENABLE_PPROF"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		General: GeneralConfig{
			Language: "en",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetsync")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetsync")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDBPath returns where the reference service keeps its database when
// none is configured.
func DefaultDBPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetsync", "budgetsync.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budgetsync", "budgetsync.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path, returning defaults if it doesn't exist.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ApplyEnv overrides file values with any set environment variables.
// Malformed numeric or boolean values are reported and left unapplied.
func (c *Config) ApplyEnv() error {
	var errs []error

	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvUserID, err))
		} else {
			c.User.ID = id
		}
	}
	if v := os.Getenv(EnvLang); v != "" {
		c.General.Language = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Server.DBPath = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Server.CORSAllowOrigins = splitList(v)
	}
	if v := os.Getenv(EnvPprof); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPprof, err))
		} else {
			c.Server.EnablePprof = on
		}
	}

	return errors.Join(errs...)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if c.API.BaseURL == "" {
		problems = append(problems, "api base url cannot be empty")
	} else if u, err := url.Parse(c.API.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid api base url '%s': %v", c.API.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid api base url scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.API.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("invalid api timeout %v: cannot be negative", c.API.Timeout))
	}

	if c.User.ID < 0 {
		problems = append(problems, fmt.Sprintf("invalid user id %d: must be positive", c.User.ID))
	}

	switch strings.ToLower(c.Log.Format) {
	case "", FormatConsole, FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be '%s' or '%s'", c.Log.Format, FormatConsole, FormatJSON))
	}

	if c.Server.Addr == "" {
		problems = append(problems, "server address cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// DBPath returns the configured database path or the default one.
func (c *Config) DBPath() string {
	if c.Server.DBPath != "" {
		return c.Server.DBPath
	}
	return DefaultDBPath()
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
