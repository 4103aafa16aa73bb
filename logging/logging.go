/*
Package logging builds slog loggers: "text" format writes human readable lines
using zerolog's console writer, "json" writes one JSON object per record.
*/
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel parses level name ("debug", "info", "warn", "error"), empty means "info".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewHandler returns handler writing records of at least given level to out.
func NewHandler(out io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", FormatText:
		// zerolog console writer expects JSON input with "message" key
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.MessageKey || len(groups) > 0 {
				return a
			}
			if a.Value.Kind() == slog.KindString {
				return slog.Any(zerolog.MessageFieldName, a.Value)
			}
			return slog.String(zerolog.MessageFieldName, fmt.Sprint(a.Value.Any()))
		}
		return slog.NewJSONHandler(&zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					return strings.ToUpper(ll)
				}
				return "????"
			},
			FormatMessage: func(i interface{}) string {
				if s, ok := i.(string); ok {
					return s
				}
				return fmt.Sprint(i)
			},
		}, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("log format %q is not supported", format)
	}
}

// New is a shortcut for NewHandler followed by slog.New.
func New(out io.Writer, format, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	h, err := NewHandler(out, format, lvl)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}
