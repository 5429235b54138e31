package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level zerolog logger used throughout the application.
// It discards everything until Init is called.
var Logger = zerolog.Nop()

// Init sets up the global logger. Level is parsed from the given string
// (e.g. "debug", "info", "warn", "error"); unknown levels fall back to info.
// A nil writer selects a human-readable console writer on stderr.
func Init(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	Logger = zerolog.New(w).With().
		Timestamp().
		Str("app", "ytscout").
		Logger()
}

// InitFile sets up the global logger to append JSON lines to path. It is
// used while a full-screen UI owns the terminal.
func InitFile(level, path string) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	Init(level, f)
	return f, nil
}
