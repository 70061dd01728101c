package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level names accepted by --log-level.
const (
	DisabledLevel = "disabled"
	DebugLevel    = "debug"
	InfoLevel     = "info"
	WarnLevel     = "warn"
	ErrorLevel    = "error"
)

func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DisabledLevel, "off", "none":
		return zerolog.Disabled, nil
	case DebugLevel:
		return zerolog.DebugLevel, nil
	case InfoLevel, "":
		return zerolog.InfoLevel, nil
	case WarnLevel, "warning":
		return zerolog.WarnLevel, nil
	case ErrorLevel:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a human-readable logger writing to w at the named level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nil
}
