package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sheetpipe/domain/model"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations. Relative paths are resolved against BaseDir.
type Paths struct {
	BaseDir   string `toml:"base_dir"`
	RawDir    string `toml:"raw_dir"`
	OutputDir string `toml:"output_dir"`
	LogFile   string `toml:"log_file"`
}

// Inference contains the column type inference settings.
type Inference struct {
	SampleSize           int     `toml:"sample_size"`
	DateSampleSize       int     `toml:"date_sample_size"`
	NullWarningThreshold float64 `toml:"null_warning_threshold"`
}

// Replacement is one literal header substitution
type Replacement struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Workbook contains settings for reading sheets.
type Workbook struct {
	HeaderRows int `toml:"header_rows"`
	// HeaderReplacements replaces the built-in header substitution table when not empty
	HeaderReplacements []Replacement `toml:"header_replacements"`
}

// Output contains artifact settings.
type Output struct {
	Compression string `toml:"compression"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Config encapsulates all configuration values for sheetpipe.
//
// Configuration sections:
//   - Paths: base, raw archive, output and log file locations
//   - Inference: sampling and null warning threshold
//   - Workbook: header rows and header substitutions
//   - Output: parquet compression
//   - Logging: level and console output
type Config struct {
	Paths     Paths     `toml:"paths"`
	Inference Inference `toml:"inference"`
	Workbook  Workbook  `toml:"workbook"`
	Output    Output    `toml:"output"`
	Logging   Logging   `toml:"logging"`
}

// Load locates, parses, and validates a configuration file. An empty path looks for
// sheetpipe.toml in the working directory and falls back to defaults when it is absent;
// an explicit path must exist. The resolved path and whether it existed are returned.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath) //nolint:gosec // Path comes from the command line
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if strings.TrimSpace(cfg.Paths.BaseDir) == "" {
			cfg.Paths.BaseDir = filepath.Dir(resolvedPath)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path is a directory: %s", expanded)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(defaultConfigFile)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return projectPath, false, nil
}

// Replacements returns the header substitution table, or nil for the built-in one
func (c *Config) Replacements() []model.Replacement {
	if len(c.Workbook.HeaderReplacements) == 0 {
		return nil
	}
	out := make([]model.Replacement, len(c.Workbook.HeaderReplacements))
	for i, r := range c.Workbook.HeaderReplacements {
		out[i] = model.Replacement{From: r.From, To: r.To}
	}
	return out
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the sample configuration file to path. An existing file is not overwritten.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // Path comes from the command line
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config file already exists: %s", path)
		}
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return file.Close()
}
