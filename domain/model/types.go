// Package model provides domain model for sheetpipe
package model

import (
	"strconv"
	"time"
)

// ColumnType represents the inferred type of a normalized column
type ColumnType int

const (
	// ColumnTypeText represents a textual column
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents a nullable 64-bit integer column
	ColumnTypeInteger
	// ColumnTypeFloat represents a 64-bit floating point column
	ColumnTypeFloat
	// ColumnTypeDate represents a timestamp column
	ColumnTypeDate
)

const (
	// sqlTypeText is the SQL TEXT type string
	sqlTypeText = "TEXT"
	// sqlTypeInteger is the SQL INTEGER type string
	sqlTypeInteger = "INTEGER"
	// sqlTypeReal is the SQL REAL type string
	sqlTypeReal = "REAL"
)

// String returns the column type name used in validation reports
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return "text"
	case ColumnTypeInteger:
		return "integer"
	case ColumnTypeFloat:
		return "float"
	case ColumnTypeDate:
		return "date"
	default:
		return "text"
	}
}

// SQLType returns the SQLite column type used when loading artifacts into a database
func (ct ColumnType) SQLType() string {
	switch ct {
	case ColumnTypeInteger:
		return sqlTypeInteger
	case ColumnTypeFloat:
		return sqlTypeReal
	case ColumnTypeDate:
		return sqlTypeText // SQLite stores datetime as TEXT in ISO8601 format
	default:
		return sqlTypeText
	}
}

// ValueKind tags the representation held by a Value
type ValueKind int

const (
	// KindNull is a missing cell
	KindNull ValueKind = iota
	// KindText is a string cell
	KindText
	// KindNumber is a floating point cell as read from the source
	KindNumber
	// KindInteger is a whole number produced by integer coercion
	KindInteger
	// KindDate is a date or datetime cell
	KindDate
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// dateStringLayout is the layout used when a date is turned into text
const dateStringLayout = "2006-01-02 15:04:05"

// Value is a single cell. Exactly one payload field is meaningful, selected by kind.
type Value struct {
	kind    ValueKind
	text    string
	number  float64
	integer int64
	date    time.Time
}

// Null returns a missing value
func Null() Value {
	return Value{kind: KindNull}
}

// Text returns a string value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a floating point value
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// Integer returns a whole number value
func Integer(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// Date returns a date value
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Kind returns the kind tag
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is missing
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// TextValue returns the string payload
func (v Value) TextValue() (string, bool) {
	return v.text, v.kind == KindText
}

// NumberValue returns the floating point payload
func (v Value) NumberValue() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// IntegerValue returns the integer payload
func (v Value) IntegerValue() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// DateValue returns the date payload
func (v Value) DateValue() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String stringifies the value. Null becomes the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindDate:
		return v.date.Format(dateStringLayout)
	default:
		return ""
	}
}

// Equal compares two values by kind and payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.number == other.number
	case KindInteger:
		return v.integer == other.integer
	case KindDate:
		return v.date.Equal(other.date)
	default:
		return true
	}
}
