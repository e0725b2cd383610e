package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Output.Compression = strings.ToLower(strings.TrimSpace(c.Output.Compression))
	if c.Output.Compression == "" {
		c.Output.Compression = defaultCompression
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		c.Paths.BaseDir = defaultBaseDir
	}

	var err error
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if c.Paths.RawDir, err = c.resolve(c.Paths.RawDir, defaultRawDir); err != nil {
		return fmt.Errorf("paths.raw_dir: %w", err)
	}
	if c.Paths.OutputDir, err = c.resolve(c.Paths.OutputDir, defaultOutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	// an empty log file disables file logging
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		if c.Paths.LogFile, err = c.resolve(c.Paths.LogFile, ""); err != nil {
			return fmt.Errorf("paths.log_file: %w", err)
		}
	}
	return nil
}

// resolve expands a path and joins relative paths onto the base directory
func (c *Config) resolve(path, fallback string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = fallback
	}
	if strings.HasPrefix(path, "~") || filepath.IsAbs(path) {
		return expandPath(path)
	}
	return expandPath(filepath.Join(c.Paths.BaseDir, path))
}
