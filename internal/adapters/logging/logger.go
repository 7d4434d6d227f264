package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Options struct {
	Level  string
	Format string
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelWarn, fmt.Errorf("parse log level %q: %w", raw, err)
	}

	return level, nil
}

// New builds the process logger. The returned Redactor must be told about
// every secret the process loads.
func New(w io.Writer, opts Options) (*slog.Logger, *Redactor, error) {
	level := slog.LevelWarn
	if opts.Level != "" {
		parsed, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	redactor := NewRedactor(handler)
	return slog.New(redactor), redactor, nil
}
