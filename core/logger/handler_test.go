package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(format logFormat) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	var lv slog.LevelVar
	lv.Set(slog.LevelDebug)
	h := newStructuredHandler(handlerConfig{
		level:    &lv,
		writer:   buf,
		format:   format,
		keyOrder: defaultKeyOrder,
	})
	return slog.New(h), buf
}

func TestHandlerKVOrdering(t *testing.T) {
	log, buf := newTestLogger(formatKV)
	log.Info("",
		slog.String("zebra", "z"),
		slog.String("event", "test"),
		slog.String("component", "tg"),
	)

	line := strings.TrimSpace(buf.String())
	tsIdx := strings.Index(line, "ts=")
	compIdx := strings.Index(line, "component=tg")
	eventIdx := strings.Index(line, "event=test")
	zebraIdx := strings.Index(line, "zebra=z")
	require.NotEqual(t, -1, tsIdx)
	assert.Less(t, tsIdx, compIdx)
	assert.Less(t, compIdx, eventIdx)
	assert.Less(t, eventIdx, zebraIdx)
}

func TestHandlerKVQuoting(t *testing.T) {
	log, buf := newTestLogger(formatKV)
	log.Info("", slog.String("text", "hello world"))
	assert.Contains(t, buf.String(), `text="hello world"`)
}

func TestHandlerJSONParses(t *testing.T) {
	log, buf := newTestLogger(formatJSON)
	log.Warn("", slog.String("event", "x"), slog.Duration("duration", 1500*time.Millisecond))

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "warn", parsed["level"])
	assert.Equal(t, "x", parsed["event"])
	assert.Equal(t, "1.5s", parsed["duration"])
}

func TestHandlerLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	var lv slog.LevelVar
	lv.Set(slog.LevelInfo)
	h := newStructuredHandler(handlerConfig{level: &lv, writer: buf, format: formatKV, keyOrder: defaultKeyOrder})
	log := slog.New(h)

	log.Debug("", slog.String("event", "hidden"))
	assert.Empty(t, buf.String())
}

func TestContextMeta(t *testing.T) {
	ctx := WithRID(context.Background(), "1:2:3")
	ctx = WithUpdateMeta(ctx, 42, 99)
	assert.Equal(t, "1:2:3", RIDFrom(ctx))
	assert.Equal(t, int64(42), UserIDFrom(ctx))
	assert.Equal(t, int64(99), ChatIDFrom(ctx))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab", Sanitize("a\x00b"))
	assert.Equal(t, "абв", SanitizeLimit("абвгд", 3))
}
