package sheetpipe

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nao1215/sheetpipe/domain/model"
)

// Default directory names, relative to the working directory
const (
	// DefaultRawDir is where raw workbooks are archived
	DefaultRawDir = "raw_files"
	// DefaultOutputDir is where run directories are created
	DefaultOutputDir = "processed_files"
)

// Builder configures and creates a Processor.
// Use NewBuilder to create a new instance, then chain method calls to configure it.
//
// The typical usage pattern is:
//
//	processor, err := sheetpipe.NewBuilder().
//		SetRawDir("raw_files").
//		SetOutputDir("processed_files").
//		Build()
//	if err != nil {
//		return err
//	}
//	sheets, err := processor.ProcessFile(ctx, "financial_sample.xlsx")
type Builder struct {
	rawDir               string
	outputDir            string
	logger               *slog.Logger
	output               OutputOptions
	headerRows           int
	sampleSize           int
	dateSampleSize       int
	nullWarningThreshold float64
	replacements         []model.Replacement
	clock                func() time.Time
}

// NewBuilder creates a Builder with default settings
func NewBuilder() *Builder {
	return &Builder{
		rawDir:               DefaultRawDir,
		outputDir:            DefaultOutputDir,
		output:               NewOutputOptions(),
		headerRows:           1,
		sampleSize:           model.DefaultSampleSize,
		dateSampleSize:       model.DefaultDateSampleSize,
		nullWarningThreshold: DefaultNullWarningThreshold,
		clock:                time.Now,
	}
}

// SetRawDir sets the directory raw workbooks are archived into
func (b *Builder) SetRawDir(dir string) *Builder {
	b.rawDir = dir
	return b
}

// SetOutputDir sets the directory run directories are created in
func (b *Builder) SetOutputDir(dir string) *Builder {
	b.outputDir = dir
	return b
}

// SetLogger sets the logger. A nil logger discards output.
func (b *Builder) SetLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// SetOutputOptions sets how artifacts are written
func (b *Builder) SetOutputOptions(options OutputOptions) *Builder {
	b.output = options
	return b
}

// SetHeaderRows sets how many leading rows of each sheet form the column labels
func (b *Builder) SetHeaderRows(n int) *Builder {
	b.headerRows = n
	return b
}

// SetSampleSize sets how many leading non-null values decide a column type
func (b *Builder) SetSampleSize(n int) *Builder {
	b.sampleSize = n
	return b
}

// SetDateSampleSize sets how many sample values are checked for dates
func (b *Builder) SetDateSampleSize(n int) *Builder {
	b.dateSampleSize = n
	return b
}

// SetNullWarningThreshold sets the null percentage above which a column is reported
func (b *Builder) SetNullWarningThreshold(percent float64) *Builder {
	b.nullWarningThreshold = percent
	return b
}

// SetReplacements replaces the header substitution table
func (b *Builder) SetReplacements(replacements []model.Replacement) *Builder {
	b.replacements = replacements
	return b
}

// SetClock sets the time source of run timestamps
func (b *Builder) SetClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build validates the configuration, creates the raw and output directories
// and returns a Processor.
func (b *Builder) Build() (*Processor, error) {
	v := newValidator()
	if err := v.validateDirectory("raw directory", b.rawDir); err != nil {
		return nil, err
	}
	if err := v.validateDirectory("output directory", b.outputDir); err != nil {
		return nil, err
	}
	if err := v.validateSettings(b); err != nil {
		return nil, err
	}

	for _, dir := range []string{b.rawDir, b.outputDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if b.clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	classifier := model.NewClassifier(
		model.WithSampleSize(b.sampleSize),
		model.WithDateSampleSize(b.dateSampleSize),
	)
	return &Processor{
		rawDir:       b.rawDir,
		outputDir:    b.outputDir,
		headerRows:   b.headerRows,
		transformer:  NewSheetTransformer(model.NewNormalizer(b.replacements), classifier, b.nullWarningThreshold, logger),
		output:       b.output,
		logger:       logger,
		now:          b.clock,
		openWorkbook: OpenWorkbook,
	}, nil
}
