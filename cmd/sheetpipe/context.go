package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/sheetpipe"
	"github.com/nao1215/sheetpipe/internal/config"
	"github.com/nao1215/sheetpipe/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// newLogger builds the run logger. Console lines go to the command's error stream.
func (c *commandContext) newLogger(cfg *config.Config, console io.Writer) (*slog.Logger, func() error, error) {
	level := cfg.Logging.Level
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		level = *c.logLevelFlag
	}
	return logging.New(logging.Options{
		Level:          level,
		FilePath:       cfg.Paths.LogFile,
		Console:        console,
		DisableConsole: !cfg.Logging.Console,
	})
}

// newProcessor builds a processor from the configuration
func (c *commandContext) newProcessor(cfg *config.Config, logger *slog.Logger) (*sheetpipe.Processor, error) {
	compression, err := sheetpipe.ParseParquetCompression(cfg.Output.Compression)
	if err != nil {
		return nil, err
	}
	return sheetpipe.NewBuilder().
		SetRawDir(cfg.Paths.RawDir).
		SetOutputDir(cfg.Paths.OutputDir).
		SetLogger(logger).
		SetHeaderRows(cfg.Workbook.HeaderRows).
		SetReplacements(cfg.Replacements()).
		SetSampleSize(cfg.Inference.SampleSize).
		SetDateSampleSize(cfg.Inference.DateSampleSize).
		SetNullWarningThreshold(cfg.Inference.NullWarningThreshold).
		SetOutputOptions(sheetpipe.NewOutputOptions().WithCompression(compression)).
		Build()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
