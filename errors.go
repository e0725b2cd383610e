package sheetpipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySheet indicates that a sheet holds no rows at all
	ErrEmptySheet = errors.New("sheetpipe: empty sheet")

	// ErrUnsupportedFormat indicates an unsupported workbook format
	ErrUnsupportedFormat = errors.New("sheetpipe: unsupported file format")

	// ErrSheetNotFound indicates that a workbook has no sheet with the requested name
	ErrSheetNotFound = errors.New("sheetpipe: sheet not found")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("sheetpipe: file not found")

	// ErrArchiveMismatch indicates that the archive copy differs from its source
	ErrArchiveMismatch = errors.New("sheetpipe: archive copy verification failed")

	// ErrNoArtifacts indicates that a run directory has no artifacts to load
	ErrNoArtifacts = errors.New("sheetpipe: no artifacts found in run")

	// ErrContextCancelled indicates context was cancelled
	ErrContextCancelled = errors.New("sheetpipe: context cancelled")
)

// RunError records which step of a run failed and where. Sheet and Target are
// empty for workbook-level steps. The cause is reachable through errors.Is.
type RunError struct {
	Step   string
	Path   string
	Sheet  string
	Target string
	Err    error
}

func newRunError(step, path string) RunError {
	return RunError{Step: step, Path: path}
}

// inSheet returns a copy scoped to one sheet
func (e RunError) inSheet(name string) RunError {
	e.Sheet = name
	return e
}

// writing returns a copy naming the output file
func (e RunError) writing(target string) RunError {
	e.Target = target
	return e
}

// wrap returns the error with its cause set
func (e RunError) wrap(err error) error {
	e.Err = err
	return &e
}

// Error renders as: sheetpipe: <step> <path> [sheet "<name>"] -> <target>: <cause>
func (e *RunError) Error() string {
	var b strings.Builder
	b.WriteString("sheetpipe: ")
	b.WriteString(e.Step)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Sheet != "" {
		fmt.Fprintf(&b, " [sheet %q]", e.Sheet)
	}
	if e.Target != "" {
		b.WriteString(" -> ")
		b.WriteString(e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RunError) Unwrap() error {
	return e.Err
}
