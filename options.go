package convopdf

import (
	"time"

	"github.com/sirupsen/logrus"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	userDataDir  string
	waitFor      string
	log          logrus.FieldLogger
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:  30 * time.Second,
		headless: "new",
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for a single fetch or print.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload downloads a Chromium build into the local cache when no
// path is given with [WithChromePath].
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithUserDataDir runs Chrome with an existing profile directory, so live
// pages that need a signed-in session can be read.
func WithUserDataDir(dir string) Option {
	return func(c *converterConfig) {
		c.userDataDir = dir
	}
}

// WithWaitFor makes [Converter.FetchHTML] wait until an element matching
// the CSS selector is visible before reading the page. Chat pages render
// their message cards after the document is ready.
func WithWaitFor(selector string) Option {
	return func(c *converterConfig) {
		c.waitFor = selector
	}
}

// WithLogger routes browser protocol errors and debug output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *converterConfig) {
		c.log = l
	}
}
