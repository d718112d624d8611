package util

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel maps the LOG_LEVEL environment value onto the logger.
// Unknown values fall back to error level so cold starts stay quiet.
func SetLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.ErrorLevel)
	}
}
