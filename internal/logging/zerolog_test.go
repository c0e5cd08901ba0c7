package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*ZerologLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)), &buf
}

func TestZerologLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger()
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		field string
	}{
		{"debug", "dbg", `"a":1`},
		{"info", "inf", `"b":2`},
		{"warn", "wrn", `"c":3`},
		{"error", "err", `"d":4`},
	}

	for _, tc := range tests {
		assert.Contains(t, out, `"level":"`+tc.level+`"`)
		assert.Contains(t, out, `"message":"`+tc.msg+`"`)
		assert.Contains(t, out, tc.field)
	}
}

func TestZerologLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger()

	log2 := log.With("req_id", "123", "user", "alice")
	log2.Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{`"req_id":"123"`, `"user":"alice"`, `"k":"v"`, `"message":"hello"`} {
		require.Contains(t, out, s)
	}
}

func TestZerologLogger_OddArgs_DoNotPanic(t *testing.T) {
	log, buf := newTestLogger()

	log.Info(context.Background(), "odd", "only-key")

	assert.Contains(t, buf.String(), "!BADKEY")
}

func TestNop_Discards(t *testing.T) {
	// Must not panic, must not write anywhere.
	Nop().Error(context.TODO(), "ignored", "k", "v")
}
