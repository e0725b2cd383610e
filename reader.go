package sheetpipe

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/nao1215/sheetpipe/domain/model"
)

// ArtifactColumn describes one column of a persisted sheet
type ArtifactColumn struct {
	Name string
	Type model.ColumnType
}

// Artifact is the content of one parquet file written by a run.
// Row values are nil, int64, float64, string or time.Time.
type Artifact struct {
	Path    string
	Columns []ArtifactColumn
	Rows    [][]any
}

// ColumnNames returns the column names in order
func (a *Artifact) ColumnNames() []string {
	names := make([]string, len(a.Columns))
	for i, c := range a.Columns {
		names[i] = c.Name
	}
	return names
}

// ReadArtifact reads a parquet artifact into memory
func ReadArtifact(ctx context.Context, path string) (*Artifact, error) {
	pqReader, err := pqfile.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	columns := make([]ArtifactColumn, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = ArtifactColumn{Name: field.Name, Type: columnTypeOf(field.Type)}
	}

	rows := make([][]any, 0, table.NumRows())
	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make([]any, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowValue(col, i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	return &Artifact{Path: path, Columns: columns, Rows: rows}, nil
}

// columnTypeOf maps an arrow type back to a column type
func columnTypeOf(dt arrow.DataType) model.ColumnType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return model.ColumnTypeInteger
	case arrow.FLOAT32, arrow.FLOAT64:
		return model.ColumnTypeFloat
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return model.ColumnTypeDate
	default:
		return model.ColumnTypeText
	}
}

// arrowValue extracts one value of an arrow array as a Go value
func arrowValue(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}
	switch a := col.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	default:
		return col.ValueStr(i)
	}
}
