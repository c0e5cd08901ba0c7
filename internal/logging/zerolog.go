package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
// Key–value argument pairs are attached as zerolog fields; a trailing
// key without a value is logged under "!BADKEY" rather than dropped.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// NewConsoleLogger builds a human-readable logger writing to w at the
// given level. Intended for the interactive CLI.
func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &ZerologLogger{l: zerolog.New(cw).Level(level).With().Timestamp().Logger()}
}

func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			e = e.Any("!BADKEY", args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		e = e.Any(key, args[i+1])
	}
	return e
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	withFields(z.l.Debug(), args).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	withFields(z.l.Info(), args).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	withFields(z.l.Warn(), args).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	withFields(z.l.Error(), args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		c = c.Any(key, args[i+1])
	}
	return &ZerologLogger{l: c.Logger()}
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() Logger {
	return &ZerologLogger{l: zerolog.Nop()}
}
