package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// Init configures the global zerolog logger.
// Development gets human-readable console output, everything else gets JSON.
func Init(serviceName, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.With().Timestamp().Str("service", serviceName).Logger()
	log.Logger = logger
	return logger
}

// GormWriter routes GORM's log output through zerolog
type GormWriter struct{}

// Printf implements gorm's logger.Writer
func (GormWriter) Printf(format string, args ...interface{}) {
	log.Info().Str("component", "gorm").Msgf(format, args...)
}

// GormLogger builds a GORM logger whose verbosity follows the service log level.
// SQL statements are only traced at debug.
func GormLogger(level string) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	switch strings.ToLower(level) {
	case "debug", "trace":
		gormLevel = gormlogger.Info
	case "error":
		gormLevel = gormlogger.Error
	case "disabled", "silent":
		gormLevel = gormlogger.Silent
	}

	return gormlogger.New(GormWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
