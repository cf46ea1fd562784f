// Package logging wires zerolog to the console and a rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/trade-journal/internal/config"
)

var appLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger initializes structured logging to the console and, when a
// directory is configured, to a rotated app.log inside it
func InitLogger(cfg config.LogConfig) error {
	var writers []io.Writer

	if cfg.Console || cfg.Dir == "" {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if cfg.Dir != "" {
		absLogDir, err := filepath.Abs(cfg.Dir)
		if err != nil {
			absLogDir = cfg.Dir
		}
		if err := os.MkdirAll(absLogDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", absLogDir, err)
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(absLogDir, "app.log"),
			MaxSize:    orDefault(cfg.MaxSize, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 30),
			MaxAge:     orDefault(cfg.MaxAge, 30),
			Compress:   true,
			LocalTime:  true,
		})
	}

	var writer io.Writer = writers[0]
	if len(writers) > 1 {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	appLogger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	appLogger.Info().Str("dir", cfg.Dir).Str("level", level.String()).Msg("logger initialized")

	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Logger returns the application logger
func Logger() *zerolog.Logger {
	return &appLogger
}

// LogInfo logs info level messages
func LogInfo(format string, v ...interface{}) {
	appLogger.Info().Msgf(format, v...)
}

// LogError logs error level messages
func LogError(format string, v ...interface{}) {
	appLogger.Error().Msgf(format, v...)
}

// LogDebug logs debug level messages
func LogDebug(format string, v ...interface{}) {
	appLogger.Debug().Msgf(format, v...)
}
