// Package logger sets up the console and rotating file loggers.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level and the optional rotated JSON log file.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// fileHook copies entries at Info and above to a second logger writing
// JSON to a rotated file.
type fileHook struct {
	file *logrus.Logger
}

func (h *fileHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel,
	}
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	h.file.WithFields(e.Data).WithTime(e.Time).Log(e.Level, e.Message)
	return nil
}

// New builds a console logger, plus a file logger when c.File is set.
func New(c Config) *logrus.Logger {
	console := logrus.New()
	console.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	console.SetOutput(os.Stderr)
	console.SetLevel(logrus.InfoLevel)
	if c.Level != "" {
		if lvl, err := logrus.ParseLevel(c.Level); err == nil {
			console.SetLevel(lvl)
		} else {
			console.Warnf("unknown log level %q, using info", c.Level)
		}
	}

	if c.File == "" {
		return console
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		console.Errorf("cannot create log directory: %v", err)
		return console
	}

	file := logrus.New()
	file.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	file.SetLevel(logrus.InfoLevel)
	file.SetOutput(&lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    orDefault(c.MaxSizeMB, 10),
		MaxBackups: orDefault(c.MaxBackups, 10),
		MaxAge:     orDefault(c.MaxAgeDays, 30),
		Compress:   true,
	})
	console.AddHook(&fileHook{file: file})
	return console
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

var (
	mu            sync.RWMutex
	defaultLogger = New(Config{})
)

// SetDefault replaces the logger behind the package-level helpers.
func SetDefault(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Default returns the logger behind the package-level helpers.
func Default() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Infof(format string, args ...any) {
	Default().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	Default().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	Default().Errorf(format, args...)
}

func Debugf(format string, args ...any) {
	Default().Debugf(format, args...)
}
