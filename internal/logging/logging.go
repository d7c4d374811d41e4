// Package logging builds the structured logger shared by the shell and the
// pipelines.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New returns a human-readable logger writing to w. level is a zerolog level
// name ("debug", "info", "warn", "error", "disabled"); empty means info.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		NoColor:    true,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// WithRun derives a logger tagged with a fresh run id, so every line logged
// during one shell cycle can be correlated.
func WithRun(l zerolog.Logger) (zerolog.Logger, string) {
	id := uuid.NewString()
	return l.With().Str("run_id", id).Logger(), id
}
