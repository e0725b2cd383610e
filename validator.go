package sheetpipe

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// validator handles validation logic for Builder
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateDirectory checks that a directory setting is non-empty and, if the path
// exists, that it is a directory
func (v *validator) validateDirectory(name, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// created by Build
			return nil
		}
		return fmt.Errorf("failed to check %s: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory: %s", name, dir)
	}
	return nil
}

// validateSettings checks the numeric settings of a builder
func (v *validator) validateSettings(b *Builder) error {
	var errs []error
	if b.headerRows < 1 {
		errs = append(errs, fmt.Errorf("header rows must be at least 1, got %d", b.headerRows))
	}
	if b.sampleSize < 1 {
		errs = append(errs, fmt.Errorf("sample size must be at least 1, got %d", b.sampleSize))
	}
	if b.dateSampleSize < 1 {
		errs = append(errs, fmt.Errorf("date sample size must be at least 1, got %d", b.dateSampleSize))
	}
	if b.nullWarningThreshold < 0 || b.nullWarningThreshold > 100 {
		errs = append(errs, fmt.Errorf("null warning threshold must be between 0 and 100, got %v", b.nullWarningThreshold))
	}
	return errors.Join(errs...)
}

// validateWorkbookPath validates the input of a run
func (v *validator) validateWorkbookPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	if !IsSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}
