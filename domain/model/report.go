package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ColumnReport summarizes one column of a validated table
type ColumnReport struct {
	Name      string
	Type      string
	NullCount int
}

// ValidationReport summarizes row count, null density and resolved types of a table.
type ValidationReport struct {
	RowCount int
	Columns  []ColumnReport
}

// NewValidationReport computes the report for a table
func NewValidationReport(t *NormalizedTable) *ValidationReport {
	columns := make([]ColumnReport, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		columns = append(columns, ColumnReport{
			Name:      c.Name(),
			Type:      c.TypeName(),
			NullCount: c.NullCount(),
		})
	}
	return &ValidationReport{
		RowCount: t.RowCount(),
		Columns:  columns,
	}
}

// NullPercentage returns the share of nulls in the column as a percentage.
// An empty table has no nulls.
func (r *ValidationReport) NullPercentage(c ColumnReport) float64 {
	if r.RowCount == 0 {
		return 0
	}
	return float64(c.NullCount) / float64(r.RowCount) * 100
}

// HighNullColumns returns the columns whose null percentage exceeds threshold
func (r *ValidationReport) HighNullColumns(threshold float64) []ColumnReport {
	var out []ColumnReport
	for _, c := range r.Columns {
		if r.NullPercentage(c) > threshold {
			out = append(out, c)
		}
	}
	return out
}

// MarshalJSON renders the report as
// {"row_count": n, "null_counts": {...}, "column_types": {...}} with keys in column order.
func (r *ValidationReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"row_count":`)
	buf.WriteString(strconv.Itoa(r.RowCount))

	buf.WriteString(`,"null_counts":{`)
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(&buf, c.Name); err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Itoa(c.NullCount))
	}

	buf.WriteString(`},"column_types":{`)
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(&buf, c.Name); err != nil {
			return nil, err
		}
		typ, err := json.Marshal(c.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(typ)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// writeJSONKey writes a quoted object key followed by a colon
func writeJSONKey(buf *bytes.Buffer, key string) error {
	quoted, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(quoted)
	buf.WriteByte(':')
	return nil
}
