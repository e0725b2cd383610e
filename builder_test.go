package sheetpipe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/sheetpipe/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NotNil(t, b, "NewBuilder() should not return nil")
	assert.Equal(t, DefaultRawDir, b.rawDir)
	assert.Equal(t, DefaultOutputDir, b.outputDir)
	assert.Equal(t, 1, b.headerRows)
	assert.Equal(t, model.DefaultSampleSize, b.sampleSize)
	assert.Equal(t, model.DefaultDateSampleSize, b.dateSampleSize)
	assert.InDelta(t, DefaultNullWarningThreshold, b.nullWarningThreshold, 0)
	assert.Equal(t, ParquetCompressionSnappy, b.output.Compression)
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("creates directories", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		rawDir := filepath.Join(base, "nested", "raw")
		outputDir := filepath.Join(base, "nested", "out")

		p, err := NewBuilder().
			SetRawDir(rawDir).
			SetOutputDir(outputDir).
			SetHeaderRows(2).
			SetOutputOptions(NewOutputOptions().WithCompression(ParquetCompressionZstd)).
			Build()
		require.NoError(t, err)
		require.NotNil(t, p)

		for _, dir := range []string{rawDir, outputDir} {
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
		assert.Equal(t, 2, p.headerRows)
		assert.Equal(t, ParquetCompressionZstd, p.output.Compression)
		assert.NotNil(t, p.logger)
		assert.NotNil(t, p.openWorkbook)
	})

	t.Run("custom clock", func(t *testing.T) {
		t.Parallel()

		fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		base := t.TempDir()
		p, err := NewBuilder().
			SetRawDir(filepath.Join(base, "raw")).
			SetOutputDir(filepath.Join(base, "out")).
			SetClock(func() time.Time { return fixed }).
			Build()
		require.NoError(t, err)
		assert.Equal(t, fixed, p.now())
	})

	t.Run("custom replacements", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		p, err := NewBuilder().
			SetRawDir(filepath.Join(base, "raw")).
			SetOutputDir(filepath.Join(base, "out")).
			SetReplacements([]model.Replacement{{From: "%", To: "pct"}}).
			Build()
		require.NoError(t, err)

		sheet := newSheet(t, "s", []string{"Margin %"}, []model.Value{model.Number(1)})
		table, _, err := p.transformer.Transform(sheet)
		require.NoError(t, err)
		assert.Equal(t, []string{"margin_pct"}, table.ColumnNames())
	})
}

func TestBuilder_BuildErrors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	regularFile := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(regularFile, nil, 0o600))

	tests := []struct {
		name    string
		builder *Builder
		errMsg  string
	}{
		{
			name:    "empty raw directory",
			builder: NewBuilder().SetRawDir(" "),
			errMsg:  "raw directory cannot be empty",
		},
		{
			name:    "empty output directory",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(""),
			errMsg:  "output directory cannot be empty",
		},
		{
			name:    "output directory is a file",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(regularFile),
			errMsg:  "output directory exists but is not a directory",
		},
		{
			name:    "header rows",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(filepath.Join(base, "out")).SetHeaderRows(0),
			errMsg:  "header rows must be at least 1",
		},
		{
			name:    "sample size",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(filepath.Join(base, "out")).SetSampleSize(0),
			errMsg:  "sample size must be at least 1",
		},
		{
			name:    "date sample size",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(filepath.Join(base, "out")).SetDateSampleSize(-1),
			errMsg:  "date sample size must be at least 1",
		},
		{
			name:    "null warning threshold",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(filepath.Join(base, "out")).SetNullWarningThreshold(101),
			errMsg:  "null warning threshold must be between 0 and 100",
		},
		{
			name:    "nil clock",
			builder: NewBuilder().SetRawDir(filepath.Join(base, "raw")).SetOutputDir(filepath.Join(base, "out")).SetClock(nil),
			errMsg:  "clock cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := tt.builder.Build()
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBuilder_BuildJoinsSettingErrors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	_, err := NewBuilder().
		SetRawDir(filepath.Join(base, "raw")).
		SetOutputDir(filepath.Join(base, "out")).
		SetHeaderRows(0).
		SetSampleSize(0).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header rows")
	assert.Contains(t, err.Error(), "sample size")
}
