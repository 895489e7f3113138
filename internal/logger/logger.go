// Package logger constructs the process zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stderr tagged with the component role
// (e.g. "syncer", "cli"). Unknown level names fall back to info.
func New(role, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Str("role", role).
		Timestamp().
		Logger()
}
