package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Version is stamped at build time with
// -ldflags "-X github.com/stemsi/bonafide-backend/internal/logger.Version=...".
var Version = "dev"

// Setup builds the process logger for one binary.
//   - level: trace, debug, info, warn, error, fatal or panic
//   - format: "json" for production, "pretty" for console output
//   - service: the binary name attached to every line
func Setup(level, format, service string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    !term.IsTerminal(int(os.Stdout.Fd())),
		}
	}
	return New(writer, level).With().
		Str("service", service).
		Str("version", Version).
		Logger()
}

// New builds a logger writing to w at the given level. Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(w).With().Timestamp().Caller().Logger()
}
