package config

import (
	"github.com/nao1215/sheetpipe"
	"github.com/nao1215/sheetpipe/domain/model"
	"github.com/nao1215/sheetpipe/internal/logging"
)

const (
	defaultConfigFile           = "sheetpipe.toml"
	defaultBaseDir              = "."
	defaultRawDir               = sheetpipe.DefaultRawDir
	defaultOutputDir            = sheetpipe.DefaultOutputDir
	defaultLogFile              = logging.DefaultLogFile
	defaultLogLevel             = "info"
	defaultCompression          = "snappy"
	defaultHeaderRows           = 1
	defaultSampleSize           = model.DefaultSampleSize
	defaultDateSampleSize       = model.DefaultDateSampleSize
	defaultNullWarningThreshold = sheetpipe.DefaultNullWarningThreshold
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir:   defaultBaseDir,
			RawDir:    defaultRawDir,
			OutputDir: defaultOutputDir,
			LogFile:   defaultLogFile,
		},
		Inference: Inference{
			SampleSize:           defaultSampleSize,
			DateSampleSize:       defaultDateSampleSize,
			NullWarningThreshold: defaultNullWarningThreshold,
		},
		Workbook: Workbook{
			HeaderRows: defaultHeaderRows,
		},
		Output: Output{
			Compression: defaultCompression,
		},
		Logging: Logging{
			Level:   defaultLogLevel,
			Console: true,
		},
	}
}
