package model

import (
	"fmt"
	"strings"
)

// HeaderLabel is the raw label of one column. A scalar label has exactly one level.
// Multi-level labels come from workbooks with more than one header row.
type HeaderLabel struct {
	levels []Value
}

// NewHeaderLabel creates a scalar header label
func NewHeaderLabel(v Value) HeaderLabel {
	return HeaderLabel{levels: []Value{v}}
}

// NewMultiLevelHeaderLabel creates a header label with one value per header row
func NewMultiLevelHeaderLabel(levels ...Value) HeaderLabel {
	cp := make([]Value, len(levels))
	copy(cp, levels)
	return HeaderLabel{levels: cp}
}

// IsMultiLevel reports whether the label spans more than one header row
func (h HeaderLabel) IsMultiLevel() bool {
	return len(h.levels) > 1
}

// Levels returns a copy of the per-level values
func (h HeaderLabel) Levels() []Value {
	cp := make([]Value, len(h.levels))
	copy(cp, h.levels)
	return cp
}

// Raw flattens the label into one string. Null levels of a multi-level label are
// dropped and the remaining trimmed levels are joined with an underscore.
func (h HeaderLabel) Raw() string {
	if !h.IsMultiLevel() {
		if len(h.levels) == 0 {
			return ""
		}
		return h.levels[0].String()
	}

	parts := make([]string, 0, len(h.levels))
	for _, level := range h.levels {
		if level.IsNull() {
			continue
		}
		parts = append(parts, strings.TrimSpace(level.String()))
	}
	return strings.Join(parts, "_")
}

// Sheet is one named table of raw cell values, stored column by column.
type Sheet struct {
	name    string
	headers []HeaderLabel
	columns [][]Value
}

// NewSheet creates a Sheet. Every column must have the same length and there must be
// one header label per column.
func NewSheet(name string, headers []HeaderLabel, columns [][]Value) (*Sheet, error) {
	if len(headers) != len(columns) {
		return nil, fmt.Errorf("%w: %d headers, %d columns", ErrHeaderCount, len(headers), len(columns))
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return nil, fmt.Errorf("%w: column %d has %d rows, expected %d",
				ErrRaggedColumns, i, len(columns[i]), len(columns[0]))
		}
	}
	return &Sheet{
		name:    name,
		headers: headers,
		columns: columns,
	}, nil
}

// Name returns the sheet name
func (s *Sheet) Name() string {
	return s.name
}

// Headers returns the raw header labels
func (s *Sheet) Headers() []HeaderLabel {
	return s.headers
}

// Columns returns the raw column values
func (s *Sheet) Columns() [][]Value {
	return s.columns
}

// RowCount returns the number of data rows
func (s *Sheet) RowCount() int {
	if len(s.columns) == 0 {
		return 0
	}
	return len(s.columns[0])
}

// Column is a named, typed column of a NormalizedTable.
type Column struct {
	name     string
	typ      ColumnType
	resolved bool
	values   []Value
}

// NewColumn creates a column whose type was decided by inference
func NewColumn(name string, typ ColumnType, values []Value) *Column {
	return &Column{name: name, typ: typ, resolved: true, values: values}
}

// NewUnresolvedColumn creates a column whose type decision was skipped because it held no
// non-null values. It is written as a text column.
func NewUnresolvedColumn(name string, values []Value) *Column {
	return &Column{name: name, typ: ColumnTypeText, values: values}
}

// Name returns the normalized column name
func (c *Column) Name() string {
	return c.name
}

// Type returns the column type
func (c *Column) Type() ColumnType {
	return c.typ
}

// Resolved reports whether the column type came from inference
func (c *Column) Resolved() bool {
	return c.resolved
}

// TypeName returns the type name for reporting
func (c *Column) TypeName() string {
	if !c.resolved {
		return "unresolved"
	}
	return c.typ.String()
}

// Values returns the column values
func (c *Column) Values() []Value {
	return c.values
}

// Len returns the number of values
func (c *Column) Len() int {
	return len(c.values)
}

// NullCount returns the number of null values
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// NormalizedTable is a sheet after header normalization and type inference.
type NormalizedTable struct {
	name     string
	columns  []*Column
	rowCount int
}

// NewNormalizedTable creates a NormalizedTable. All columns must have rowCount values.
func NewNormalizedTable(name string, rowCount int, columns []*Column) (*NormalizedTable, error) {
	for _, c := range columns {
		if c.Len() != rowCount {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrRaggedColumns, c.Name(), c.Len(), rowCount)
		}
	}
	return &NormalizedTable{
		name:     name,
		columns:  columns,
		rowCount: rowCount,
	}, nil
}

// Name returns the source sheet name
func (t *NormalizedTable) Name() string {
	return t.name
}

// Columns returns the columns in order
func (t *NormalizedTable) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the normalized column names in order
func (t *NormalizedTable) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Column looks a column up by name
func (t *NormalizedTable) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// RowCount returns the number of rows
func (t *NormalizedTable) RowCount() int {
	return t.rowCount
}
