// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"birthday_notifier/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// LogFileName is the append-only operational log, written alongside
// stdout.
const LogFileName = "birthday_notifier.log"

// Init builds the application logger from configuration. The logger is
// handed to each component at construction; nothing else in the
// codebase touches process-wide logging state.
func Init(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()

	out := io.Writer(os.Stdout)
	file, err := os.OpenFile(LogFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		out = io.MultiWriter(os.Stdout, file)
	}
	log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return log
}
