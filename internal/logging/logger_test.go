package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - [A-Z]+ - `)

func TestNew_ConsoleAndFile(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", DefaultLogFile)

	logger, closeFn, err := New(Options{Level: "info", FilePath: path, Console: &console})
	require.NoError(t, err)

	logger.Info("Raw file stored", "path", "raw_files/20241212_190749_book.xlsx")
	logger.Warn("High null percentage (75.0%) in column: notes")
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(data), "file and console should receive the same lines")

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
	assert.True(t, strings.HasSuffix(lines[0], " - INFO - Raw file stored path=raw_files/20241212_190749_book.xlsx"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " - WARNING - High null percentage (75.0%) in column: notes"), lines[1])
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(Options{Level: "verbose"})
	assert.Error(t, err)
}

func TestNew_DisableConsole(t *testing.T) {
	t.Parallel()

	logger, closeFn, err := New(Options{DisableConsole: true})
	require.NoError(t, err)
	defer func() {
		_ = closeFn()
	}()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "", expected: slog.LevelInfo},
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: " info ", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		require.NoError(t, err, "ParseLevel(%q)", tt.input)
		assert.Equal(t, tt.expected, got, "ParseLevel(%q)", tt.input)
	}
}

func TestLineHandler_Attrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newLineHandler(&buf, slog.LevelDebug)).
		With("file", "my book.xlsx").
		WithGroup("sheet")

	logger.Debug("Processing sheet", "name", "Sales", "rows", 3, "error", errors.New("bad cell"))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line,
		` - DEBUG - Processing sheet file="my book.xlsx" sheet.name=Sales sheet.rows=3 sheet.error="bad cell"`), line)
}

func TestLevelLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", levelLabel(slog.LevelDebug))
	assert.Equal(t, "INFO", levelLabel(slog.LevelInfo))
	assert.Equal(t, "WARNING", levelLabel(slog.LevelWarn))
	assert.Equal(t, "ERROR", levelLabel(slog.LevelError))
	assert.Equal(t, "ERROR", levelLabel(slog.LevelError+4))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `""`, formatValue(slog.StringValue("")))
	assert.Equal(t, "plain", formatValue(slog.StringValue("plain")))
	assert.Equal(t, `"a=b"`, formatValue(slog.StringValue("a=b")))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
	assert.Equal(t, "0.5", formatValue(slog.Float64Value(0.5)))
	assert.Equal(t, `"[a b]"`, formatValue(slog.AnyValue([]string{"a", "b"})))
}
