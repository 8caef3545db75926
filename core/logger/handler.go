package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

type logFormat int

const (
	formatJSON logFormat = iota
	formatKV
)

// defaultKeyOrder pins the leading keys of every log line so output
// stays scannable; remaining keys follow alphabetically.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "rid",
	"user_id", "chat_id", "handler", "duration", "err",
}

type handlerConfig struct {
	level    *slog.LevelVar
	writer   io.Writer
	format   logFormat
	keyOrder []string
}

type structuredHandler struct {
	cfg   handlerConfig
	mu    *sync.Mutex
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	return &structuredHandler{cfg: cfg, mu: &sync.Mutex{}}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.cfg.level == nil {
		return true
	}
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup flattens groups: group names become key prefixes on write.
func (h *structuredHandler) WithGroup(string) slog.Handler { return h }

func (h *structuredHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := map[string]string{
		"ts":    rec.Time.UTC().Format(time.RFC3339Nano),
		"level": strings.ToLower(rec.Level.String()),
	}
	if rec.Message != "" {
		fields["msg"] = rec.Message
	}
	for _, attr := range h.attrs {
		collect(fields, attr)
	}
	rec.Attrs(func(attr slog.Attr) bool {
		collect(fields, attr)
		return true
	})

	line := h.render(fields)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.cfg.writer.Write(append(line, '\n'))
	return err
}

func collect(fields map[string]string, attr slog.Attr) {
	if attr.Key == "" {
		return
	}
	v := attr.Value.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		fields[attr.Key] = v.Duration().String()
	case slog.KindTime:
		fields[attr.Key] = v.Time().UTC().Format(time.RFC3339Nano)
	default:
		fields[attr.Key] = fmt.Sprint(v.Any())
	}
}

func (h *structuredHandler) render(fields map[string]string) []byte {
	keys := orderedKeys(fields, h.cfg.keyOrder)

	var b strings.Builder
	if h.cfg.format == formatJSON {
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(&b, k)
			b.WriteByte(':')
			writeJSONString(&b, fields[k])
		}
		b.WriteByte('}')
		return []byte(b.String())
	}

	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		val := fields[k]
		if strings.ContainsAny(val, " \t\n\"=") || val == "" {
			writeJSONString(&b, val)
		} else {
			b.WriteString(val)
		}
	}
	return []byte(b.String())
}

func orderedKeys(fields map[string]string, order []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range order {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func writeJSONString(b *strings.Builder, s string) {
	encoded, err := json.Marshal(s)
	if err != nil {
		b.WriteString(`"?"`)
		return
	}
	b.Write(encoded)
}
