package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":           {},
	"pinhash":       {},
	"pin_hash":      {},
	"closepin":      {},
	"close_pin":     {},
	"token":         {},
	"authorization": {},
	"password":      {},
	"channelkey":    {},
	"channel_key":   {},
	"jwtsecret":     {},
	"jwt_secret":    {},
}

var (
	mu   sync.RWMutex
	base = newLogger(os.Stderr, "info", false)
)

// Configure replaces the process logger. Pretty output uses the zerolog
// console writer, otherwise one JSON object is written per line.
func Configure(level string, pretty bool) {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	base = newLogger(out, level, false)
	mu.Unlock()
}

// SetOutput redirects JSON log lines to w at debug level.
func SetOutput(w io.Writer) {
	mu.Lock()
	base = newLogger(w, "debug", true)
	mu.Unlock()
}

func Debug(message string, fields Fields) {
	write(current().Debug(), message, fields)
}

func Info(message string, fields Fields) {
	write(current().Info(), message, fields)
}

func Warn(message string, fields Fields) {
	write(current().Warn(), message, fields)
}

func Error(message string, err error, fields Fields) {
	write(current().Error().Err(err), message, fields)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func newLogger(w io.Writer, level string, quiet bool) zerolog.Logger {
	ctx := zerolog.New(w).Level(parseLevel(level)).With()
	if !quiet {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

func write(event *zerolog.Event, message string, fields Fields) {
	if event == nil {
		return
	}
	if len(fields) > 0 {
		if sanitized, ok := SanitizePayload(fields).(map[string]any); ok {
			event = event.Fields(sanitized)
		}
	}
	event.Msg(message)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
