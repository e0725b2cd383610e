package sheetpipe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/nao1215/sheetpipe/domain/model"
)

// ParquetCompression is the page compression codec of written artifacts
type ParquetCompression int

const (
	// ParquetCompressionSnappy represents snappy compression (default)
	ParquetCompressionSnappy ParquetCompression = iota
	// ParquetCompressionNone represents uncompressed pages
	ParquetCompressionNone
	// ParquetCompressionGzip represents gzip compression
	ParquetCompressionGzip
	// ParquetCompressionZstd represents zstd compression
	ParquetCompressionZstd
	// ParquetCompressionBrotli represents brotli compression
	ParquetCompressionBrotli
	// ParquetCompressionLz4 represents lz4 raw compression
	ParquetCompressionLz4
)

// String returns the codec name as used in configuration files
func (c ParquetCompression) String() string {
	switch c {
	case ParquetCompressionNone:
		return "none"
	case ParquetCompressionGzip:
		return "gzip"
	case ParquetCompressionZstd:
		return "zstd"
	case ParquetCompressionBrotli:
		return "brotli"
	case ParquetCompressionLz4:
		return "lz4"
	default:
		return "snappy"
	}
}

// codec returns the parquet codec
func (c ParquetCompression) codec() compress.Compression {
	switch c {
	case ParquetCompressionNone:
		return compress.Codecs.Uncompressed
	case ParquetCompressionGzip:
		return compress.Codecs.Gzip
	case ParquetCompressionZstd:
		return compress.Codecs.Zstd
	case ParquetCompressionBrotli:
		return compress.Codecs.Brotli
	case ParquetCompressionLz4:
		return compress.Codecs.Lz4Raw
	default:
		return compress.Codecs.Snappy
	}
}

// ParseParquetCompression parses a codec name. The empty string means snappy.
func ParseParquetCompression(s string) (ParquetCompression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snappy":
		return ParquetCompressionSnappy, nil
	case "none", "uncompressed":
		return ParquetCompressionNone, nil
	case "gzip":
		return ParquetCompressionGzip, nil
	case "zstd":
		return ParquetCompressionZstd, nil
	case "brotli":
		return ParquetCompressionBrotli, nil
	case "lz4", "lz4_raw":
		return ParquetCompressionLz4, nil
	default:
		return ParquetCompressionSnappy, fmt.Errorf("unknown parquet compression %q", s)
	}
}

// OutputOptions configures how artifacts are written.
//
// Example:
//
//	options := NewOutputOptions().WithCompression(ParquetCompressionZstd)
type OutputOptions struct {
	// Compression specifies the parquet page compression
	Compression ParquetCompression
}

// NewOutputOptions creates default output options (snappy compression)
func NewOutputOptions() OutputOptions {
	return OutputOptions{
		Compression: ParquetCompressionSnappy,
	}
}

// WithCompression sets the parquet page compression
func (o OutputOptions) WithCompression(compression ParquetCompression) OutputOptions {
	o.Compression = compression
	return o
}

// arrowType maps a column to its arrow type. Unresolved columns are written as strings.
func arrowType(c *model.Column) arrow.DataType {
	if !c.Resolved() {
		return arrow.BinaryTypes.String
	}
	switch c.Type() {
	case model.ColumnTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case model.ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case model.ColumnTypeDate:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// tableSchema builds the arrow schema of a table. Every column is nullable.
func tableSchema(table *model.NormalizedTable) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(table.Columns()))
	for _, c := range table.Columns() {
		fields = append(fields, arrow.Field{Name: c.Name(), Type: arrowType(c), Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// buildRecord converts a table to a single arrow record
func buildRecord(schema *arrow.Schema, table *model.NormalizedTable) (arrow.Record, error) {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i, c := range table.Columns() {
		switch fb := builder.Field(i).(type) {
		case *array.Int64Builder:
			for _, v := range c.Values() {
				if n, ok := v.IntegerValue(); ok {
					fb.Append(n)
				} else {
					fb.AppendNull()
				}
			}
		case *array.Float64Builder:
			for _, v := range c.Values() {
				if f, ok := v.NumberValue(); ok {
					fb.Append(f)
				} else {
					fb.AppendNull()
				}
			}
		case *array.TimestampBuilder:
			for _, v := range c.Values() {
				t, ok := v.DateValue()
				if !ok {
					fb.AppendNull()
					continue
				}
				ts, err := arrow.TimestampFromTime(t, arrow.Microsecond)
				if err != nil {
					return nil, fmt.Errorf("column %s: %w", c.Name(), err)
				}
				fb.Append(ts)
			}
		case *array.StringBuilder:
			for _, v := range c.Values() {
				if s, ok := v.TextValue(); ok {
					fb.Append(s)
				} else {
					fb.AppendNull()
				}
			}
		default:
			return nil, fmt.Errorf("column %s: unsupported arrow builder %T", c.Name(), fb)
		}
	}
	return builder.NewRecord(), nil
}

// writeParquet writes a table to path as a single row group parquet file
func writeParquet(path string, table *model.NormalizedTable, options OutputOptions) error {
	schema := tableSchema(table)
	record, err := buildRecord(schema, table)
	if err != nil {
		return err
	}
	defer record.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(options.Compression.codec()))
	return writeFileOrRemove(path, func(w io.Writer) error {
		writer, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.DefaultWriterProps())
		if err != nil {
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}
		if err := writer.Write(record); err != nil {
			_ = writer.Close() // Ignore close error during error handling
			return fmt.Errorf("failed to write parquet record: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to close parquet writer: %w", err)
		}
		return nil
	})
}

// writeFileOrRemove creates path and fills it with write.
// The file is removed when write or close fails, so no truncated output is left behind.
func writeFileOrRemove(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // Path is derived from the run directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path) // Ignore remove error during error handling
		}
	}()

	// write sees a plain writer; the file is closed here only
	if err := write(struct{ io.Writer }{f}); err != nil {
		_ = f.Close() // Ignore close error during error handling
		return err
	}
	return f.Close()
}
