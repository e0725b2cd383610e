package sheetpipe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileType represents supported workbook types
type FileType int

const (
	// FileTypeXLSX represents an Excel workbook (.xlsx, .xlsm, .xltx, .xltm)
	FileTypeXLSX FileType = iota
	// FileTypeCSV represents a comma separated file read as a single sheet
	FileTypeCSV
	// FileTypeTSV represents a tab separated file read as a single sheet
	FileTypeTSV
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extXLSX is the Excel workbook extension
	extXLSX = ".xlsx"
	// extXLSM is the macro-enabled Excel workbook extension
	extXLSM = ".xlsm"
	// extXLTX is the Excel template extension
	extXLTX = ".xltx"
	// extXLTM is the macro-enabled Excel template extension
	extXLTM = ".xltm"
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extParquet is the artifact extension
	extParquet = ".parquet"
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// Delimiters
const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// String returns the file type name
func (ft FileType) String() string {
	switch ft {
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	default:
		return "unsupported"
	}
}

// file is a workbook path together with its detected type and compression
type file struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newFile creates a file from a path
func newFile(path string) *file {
	return &file{
		path:        path,
		fileType:    detectFileType(path),
		compression: detectCompressionType(path),
	}
}

// IsSupportedFile checks if the file has a supported workbook extension,
// optionally followed by a compression extension
func IsSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// detectFileType detects file type from extension, considering compressed files
func detectFileType(path string) FileType {
	base := strings.ToLower(removeCompressionExtension(filepath.Base(path)))
	switch filepath.Ext(base) {
	case extXLSX, extXLSM, extXLTX, extXLTM:
		return FileTypeXLSX
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	default:
		return FileTypeUnsupported
	}
}

// removeCompressionExtension removes the compression extension from a file path if present
func removeCompressionExtension(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// baseName returns the file name without compression and type extensions
func (f *file) baseName() string {
	name := removeCompressionExtension(filepath.Base(f.path))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// isCompressed returns true if file is compressed
func (f *file) isCompressed() bool {
	return f.compression != CompressionNone
}

// openReader opens file and returns a reader that handles decompression
func (f *file) openReader() (io.Reader, func() error, error) {
	fh, err := os.Open(f.path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, nil, err
	}

	reader, cleanup, err := newDecompressor(f.compression).createReader(fh)
	if err != nil {
		_ = fh.Close() // Ignore close error during error handling
		return nil, nil, err
	}

	return reader, func() error {
		cleanupErr := cleanup()
		if closeErr := fh.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}, nil
}
