// Package model provides domain model for sheetpipe
package model

import "errors"

var (
	// ErrRaggedColumns is returned when the columns of a table differ in length
	ErrRaggedColumns = errors.New("columns have different lengths")

	// ErrHeaderCount is returned when the number of header labels does not match the number of columns
	ErrHeaderCount = errors.New("header count does not match column count")

	// ErrUnsupportedValue is returned when a value carries an unknown kind tag
	ErrUnsupportedValue = errors.New("unsupported value kind")

	// ErrLossyInteger is returned when integer coercion meets a fractional or out-of-range number
	ErrLossyInteger = errors.New("value cannot be represented as an integer")

	// ErrInvalidManifest is returned when a manifest document is missing required fields
	ErrInvalidManifest = errors.New("invalid run manifest")
)
