package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// New builds a JSON Logger writing to w using the named backend ("slog" or
// "zerolog") at the given level ("debug", "info", "warn", "error").
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil

	case BackendZerolog:
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
		return NewZerologLogger(zl), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
