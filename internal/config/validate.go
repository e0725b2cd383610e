package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/sheetpipe"
	"github.com/nao1215/sheetpipe/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateInference(); err != nil {
		return err
	}
	if err := c.validateWorkbook(); err != nil {
		return err
	}
	if _, err := sheetpipe.ParseParquetCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("output.compression: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RawDir) == "" {
		return errors.New("paths.raw_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.RawDir == c.Paths.OutputDir {
		return errors.New("paths.raw_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateInference() error {
	if c.Inference.SampleSize < 1 {
		return errors.New("inference.sample_size must be at least 1")
	}
	if c.Inference.DateSampleSize < 1 {
		return errors.New("inference.date_sample_size must be at least 1")
	}
	if c.Inference.NullWarningThreshold < 0 || c.Inference.NullWarningThreshold > 100 {
		return errors.New("inference.null_warning_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateWorkbook() error {
	if c.Workbook.HeaderRows < 1 {
		return errors.New("workbook.header_rows must be at least 1")
	}
	for i, r := range c.Workbook.HeaderReplacements {
		if r.From == "" {
			return fmt.Errorf("workbook.header_replacements[%d].from must be set", i)
		}
	}
	return nil
}
