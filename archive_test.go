package sheetpipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePath(t *testing.T) {
	t.Parallel()

	got := archivePath("raw_files", "20241212_190749", "/data/in/financial_sample.xlsx")
	assert.Equal(t, filepath.Join("raw_files", "20241212_190749_financial_sample.xlsx"), got)
}

func TestCopyFileVerified(t *testing.T) {
	t.Parallel()

	t.Run("copies content", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "src.xlsx")
		dst := filepath.Join(dir, "dst.xlsx")
		content := []byte("workbook bytes")
		require.NoError(t, os.WriteFile(src, content, 0o600))

		require.NoError(t, copyFileVerified(src, dst))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		err := copyFileVerified(filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "dst.xlsx"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "src.xlsx")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		err := copyFileVerified(src, filepath.Join(blocker, "dst.xlsx"))
		assert.Error(t, err)
	})
}
