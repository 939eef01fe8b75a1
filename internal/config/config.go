// Package config resolves runtime settings from defaults, an optional TOML
// file, TADA_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/auth"
)

const (
	DefaultAPIBaseURL = "http://localhost:3001"
	DefaultTheme      = "light"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"

	configFileName = "config.toml"
	logFileName    = "tada.log"
)

// Env names.
const (
	EnvConfig            = "TADA_CONFIG"
	EnvAPIBaseURL        = "TADA_API_BASE_URL"
	EnvTheme             = "TADA_THEME"
	EnvLogLevel          = "TADA_LOG_LEVEL"
	EnvLogFormat         = "TADA_LOG_FORMAT"
	EnvLogFile           = "TADA_LOG_FILE"
	EnvValidateResponses = "TADA_VALIDATE_RESPONSES"
)

type Config struct {
	APIBaseURL        string `toml:"api_base_url"`
	Theme             string `toml:"theme"`
	LogLevel          string `toml:"log_level"`
	LogFormat         string `toml:"log_format"`
	LogFile           string `toml:"log_file"`
	ValidateResponses bool   `toml:"validate_responses"`

	// Path is the config file that was read, if any.
	Path string `toml:"-"`
}

// Overrides carries flag values; nil fields were not set on the command line.
type Overrides struct {
	APIBaseURL *string
	Theme      *string
	LogLevel   *string
}

func Default() Config {
	return Config{
		APIBaseURL:        DefaultAPIBaseURL,
		Theme:             DefaultTheme,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		ValidateResponses: true,
	}
}

// Load builds the configuration. An explicit path must exist; otherwise
// TADA_CONFIG, then ~/.tada/config.toml are tried and may be absent.
func Load(path string, o Overrides) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
		explicit = path != ""
	}
	if !explicit {
		if dir, err := auth.Dir(); err == nil {
			path = filepath.Join(dir, configFileName)
		}
	}
	if path != "" {
		path = expandHome(path)
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				path = ""
			} else {
				return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
		cfg.Path = path
	}

	cfg = FromEnv(cfg)
	cfg.Apply(o)

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays TADA_* variables on base.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool(EnvValidateResponses); ok {
		cfg.ValidateResponses = v
	}
	return cfg
}

// Apply copies every set override into c.
func (c *Config) Apply(o Overrides) {
	if o.APIBaseURL != nil {
		c.APIBaseURL = *o.APIBaseURL
	}
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
}

func (c *Config) finalize() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	switch c.Theme {
	case "":
		c.Theme = DefaultTheme
	case "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q (want light or dark)", c.Theme)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if c.LogFile == "" {
		if dir, err := auth.Dir(); err == nil {
			c.LogFile = filepath.Join(dir, logFileName)
		}
	}
	c.LogFile = expandHome(c.LogFile)
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "y", "yes", "on":
		return true, true
	case "n", "no", "off":
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
