package sheetpipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/sheetpipe/domain/model"
)

// RunSummary is the manifest of a finished run together with its artifacts
type RunSummary struct {
	Dir      string
	Manifest *model.RunManifest
	Sheets   []SheetArtifact
}

// SheetArtifact pairs a sheet name with its artifact
type SheetArtifact struct {
	Sheet    string
	Artifact *Artifact
}

// ReadRunManifest reads metadata.json from a run directory
func ReadRunManifest(runDir string) (*model.RunManifest, error) {
	path := filepath.Join(runDir, manifestFileName)
	f, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer func() {
		_ = f.Close() // Ignore close error on a read-only handle
	}()
	return model.ReadManifest(f)
}

// InspectRun reads the manifest and every artifact of a run directory.
// Sheets keep the workbook order recorded in the manifest.
func InspectRun(ctx context.Context, runDir string) (*RunSummary, error) {
	manifest, err := ReadRunManifest(runDir)
	if err != nil {
		return nil, newRunError("inspect run", runDir).wrap(err)
	}

	summary := &RunSummary{Dir: runDir, Manifest: manifest}
	for _, sheet := range manifest.Sheets() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContextCancelled, err)
		}
		artifact, err := ReadArtifact(ctx, resolveArtifactPath(runDir, sheet.Path))
		if err != nil {
			return nil, newRunError("read artifact", runDir).inSheet(sheet.Sheet).wrap(err)
		}
		summary.Sheets = append(summary.Sheets, SheetArtifact{Sheet: sheet.Sheet, Artifact: artifact})
	}
	return summary, nil
}

// resolveArtifactPath returns the recorded artifact path, or the file of the same name
// inside runDir when the run directory has been moved since it was written
func resolveArtifactPath(runDir, recorded string) string {
	if _, err := os.Stat(recorded); err == nil {
		return recorded
	}
	return filepath.Join(runDir, filepath.Base(recorded))
}
