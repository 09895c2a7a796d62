// Package logging configures the process-wide logrus logger and hands out
// per-component entries.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures the root logger.
type Options struct {
	Output io.Writer
	Level  string
	// Pretty switches to the human-readable text formatter (CLI usage).
	Pretty bool
}

// New builds a configured *logrus.Logger.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	log.SetOutput(opts.Output)
	log.SetLevel(parseLevel(opts.Level))
	if opts.Pretty {
		log.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.Kitchen})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	return log
}

// Component returns an entry tagged with the component name.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func parseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
