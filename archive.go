package sheetpipe

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// archivePath returns the archive location of a workbook for a run
func archivePath(rawDir, timestamp, src string) string {
	return filepath.Join(rawDir, timestamp+"_"+filepath.Base(src))
}

// copyFileVerified streams src to dst and checks size and SHA-256 of both sides.
// dst is removed on mismatch.
func copyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, src)
		}
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close() // Ignore close error on a read-only handle
	}()

	out, err := os.Create(dst) //nolint:gosec // Destination is derived from configured raw directory
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: source %d bytes, copied %d bytes", ErrArchiveMismatch, srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: hash mismatch", ErrArchiveMismatch)
	}

	return nil
}
