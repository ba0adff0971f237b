// Package config loads the convopdf configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/porticus-lab/convo-pdf/internal/dom"
)

// DefaultFile is the configuration path used when none is given.
const DefaultFile = "etc/convopdf.yaml"

type Server struct {
	Addr           string   `yaml:"Addr"`
	AllowedOrigins []string `yaml:"AllowedOrigins"`
}

type Chrome struct {
	Path         string        `yaml:"Path"`
	NoSandbox    bool          `yaml:"NoSandbox"`
	AutoDownload bool          `yaml:"AutoDownload"`
	Timeout      time.Duration `yaml:"Timeout"`
	UserDataDir  string        `yaml:"UserDataDir"` // reuse a signed-in profile for live pages
	WaitFor      string        `yaml:"WaitFor"`     // selector that must be visible before reading a live page
}

type Preferences struct {
	Path string `yaml:"Path"` // empty means the per-user default
}

type Log struct {
	Level      string `yaml:"Level"`
	File       string `yaml:"File"` // empty disables the file log
	MaxSizeMB  int    `yaml:"MaxSizeMB"`
	MaxBackups int    `yaml:"MaxBackups"`
	MaxAgeDays int    `yaml:"MaxAgeDays"`
}

type Config struct {
	Server      Server        `yaml:"Server"`
	Chrome      Chrome        `yaml:"Chrome"`
	Preferences Preferences   `yaml:"Preferences"`
	Selectors   dom.Selectors `yaml:"Selectors"`
	Log         Log           `yaml:"Log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:           "127.0.0.1:8787",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:*"},
		},
		Chrome: Chrome{
			Timeout: 60 * time.Second,
		},
		Selectors: dom.DefaultSelectors(),
		Log: Log{
			Level:      "info",
			File:       "logs/convopdf.log",
			MaxSizeMB:  10,
			MaxBackups: 10,
			MaxAgeDays: 30,
		},
	}
}

// LoadFromFile reads filename over the defaults and validates the result.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads filename when it exists, falls back to the defaults when it
// does not, then applies environment overrides.
func Load(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultFile
	}
	c, err := LoadFromFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		c, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from CONVOPDF_* environment variables.
func (c *Config) ApplyEnv() {
	c.Server.Addr = envOr("CONVOPDF_ADDR", c.Server.Addr)
	if v := os.Getenv("CONVOPDF_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	c.Chrome.Path = envOr("CONVOPDF_CHROME_PATH", c.Chrome.Path)
	c.Chrome.NoSandbox = envBool("CONVOPDF_CHROME_NO_SANDBOX", c.Chrome.NoSandbox)
	c.Chrome.AutoDownload = envBool("CONVOPDF_CHROME_DOWNLOAD", c.Chrome.AutoDownload)
	c.Chrome.Timeout = envDuration("CONVOPDF_TIMEOUT", c.Chrome.Timeout)
	c.Preferences.Path = envOr("CONVOPDF_PREFS", c.Preferences.Path)
	c.Log.Level = envOr("CONVOPDF_LOG_LEVEL", c.Log.Level)
	c.Log.File = envOr("CONVOPDF_LOG_FILE", c.Log.File)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("Server.Addr must not be empty")
	}
	if c.Chrome.Timeout < 0 {
		return fmt.Errorf("Chrome.Timeout must be >= 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("Log.Level %q is not a log level", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("Log rotation limits must be >= 0")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
