package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// timestampLayout renders milliseconds after a comma
const timestampLayout = "2006-01-02 15:04:05,000"

// lineHandler writes "timestamp - LEVEL - message key=value" lines
type lineHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	// attrs are flattened when added so later groups do not prefix them
	attrs  []kv
	groups []string
}

func newLineHandler(w io.Writer, level slog.Leveler) *lineHandler {
	return &lineHandler{mu: &sync.Mutex{}, writer: w, level: level}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	kvs = append(kvs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var buf bytes.Buffer
	buf.Grow(64 + len(record.Message) + len(kvs)*24)

	buf.WriteString(timestamp.Format(timestampLayout))
	buf.WriteString(" - ")
	buf.WriteString(levelLabel(record.Level))
	buf.WriteString(" - ")
	buf.WriteString(strings.TrimSpace(record.Message))

	for _, kv := range kvs {
		buf.WriteByte(' ')
		buf.WriteString(kv.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(kv.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	flattenAttrs(&clone.attrs, clone.groups, attrs)
	return clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *lineHandler) clone() *lineHandler {
	return &lineHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		attrs:  append([]kv(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// levelLabel returns the level name printed in log lines
func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
