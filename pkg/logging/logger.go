// Package logging provides structured logging for modelreg on top of
// zerolog. Console output is used when stderr is a terminal and JSON
// otherwise.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("family", "deepseek-r1").Int("models", 14).Msg("Registered family")
//
//	// Carry a logger through a verification sweep
//	ctx := logging.WithLogger(context.Background(), log)
//	ctx = logging.WithOperation(ctx, "verify")
//	logging.FromContext(ctx).Debug().Str("model_id", id).Msg("Checking model")
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs Default and the package-level event helpers. Until the
// CLI configures it, it follows LOG_LEVEL, LOG_FORMAT and NO_COLOR.
var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig builds a Config from the process environment. DEBUG set to
// anything enables debug logs when LOG_LEVEL is unset.
func envConfig() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	switch lvl := os.Getenv("LOG_LEVEL"); {
	case lvl != "":
		cfg.Level = lvl
	case os.Getenv("DEBUG") != "":
		cfg.Level = "debug"
	}
	return cfg
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info event on the default logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error event on the default logger.
func Error() *zerolog.Event { return defaultLogger.Error() }

// isatty reports whether stderr is a character device.
func isatty() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
