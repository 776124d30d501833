package logging

import (
	"github.com/rs/zerolog"
)

// CommandLogger writes dispatcher records (command handled, command failed)
// as zerolog JSON lines. It satisfies dispatcher.Logger.
type CommandLogger struct {
	logger zerolog.Logger
}

// NewCommandLogger tags every record with component=dispatcher.
func NewCommandLogger(logger zerolog.Logger) *CommandLogger {
	return &CommandLogger{logger: logger.With().Str("component", "dispatcher").Logger()}
}

func (l *CommandLogger) Debug(msg string, keysAndValues ...any) {
	withPairs(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *CommandLogger) Info(msg string, keysAndValues ...any) {
	withPairs(l.logger.Info(), keysAndValues).Msg(msg)
}

func (l *CommandLogger) Error(msg string, keysAndValues ...any) {
	withPairs(l.logger.Error(), keysAndValues).Msg(msg)
}

// withPairs adds slog-style key/value pairs to e. Errors go through Err so
// they land under zerolog's error field; pairs with a non-string key and a
// trailing lone value are dropped.
func withPairs(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
