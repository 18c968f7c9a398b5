// Package logging configures the standard logrus logger from LOG_FORMAT
// (json|text) and LOG_LEVEL.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures logrus.StandardLogger() from the environment.
func Setup() *logrus.Logger {
	l := logrus.StandardLogger()
	Configure(l, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"), os.Stderr)
	return l
}

func Configure(l *logrus.Logger, format, level string, out io.Writer) {
	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	switch strings.ToLower(level) {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	l.SetOutput(out)
}
