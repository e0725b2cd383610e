package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sampling constants
const (
	// DefaultSampleSize is the number of leading non-null values used to decide a column type
	DefaultSampleSize = 1000
	// DefaultDateSampleSize is the number of leading sample values checked for dates
	DefaultDateSampleSize = 100
)

// NullText is the text a null cell takes in a text column
const NullText = "nan"

// Integer range limits for float64 to int64 conversion
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// DefaultDatePatterns are prefix patterns of which at least one sample value must match
// before a column is considered for the date type.
var DefaultDatePatterns = []*regexp.Regexp{
	// ISO8601 date
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	// US date
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
	// Day, abbreviated month, year
	regexp.MustCompile(`^\d{2}-[A-Za-z]{3}-\d{4}`),
}

// DefaultDateLayouts are the layouts accepted when parsing text as a date.
var DefaultDateLayouts = []string{
	// ISO8601
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04:05 PM",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	// US
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	// day, abbreviated month, year
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-2006 15:04",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006 3:04 PM",
	"02-Jan-2006 3:04:05 PM",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithSampleSize sets how many leading non-null values are sampled. Values below 1 are ignored.
func WithSampleSize(n int) ClassifierOption {
	return func(c *Classifier) {
		if n >= 1 {
			c.sampleSize = n
		}
	}
}

// WithDateSampleSize sets how many leading sample values are checked for dates. Values below 1 are ignored.
func WithDateSampleSize(n int) ClassifierOption {
	return func(c *Classifier) {
		if n >= 1 {
			c.dateSampleSize = n
		}
	}
}

// WithDatePatterns replaces the date prefix patterns
func WithDatePatterns(patterns []*regexp.Regexp) ClassifierOption {
	return func(c *Classifier) {
		c.datePatterns = append([]*regexp.Regexp(nil), patterns...)
	}
}

// WithDateLayouts replaces the accepted date layouts
func WithDateLayouts(layouts []string) ClassifierOption {
	return func(c *Classifier) {
		c.dateLayouts = append([]string(nil), layouts...)
	}
}

// Classifier decides the type of a column from a sample of its values and coerces
// the full column to that type.
type Classifier struct {
	sampleSize     int
	dateSampleSize int
	datePatterns   []*regexp.Regexp
	dateLayouts    []string
}

// NewClassifier creates a Classifier with default sampling and date tables
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		sampleSize:     DefaultSampleSize,
		dateSampleSize: DefaultDateSampleSize,
		datePatterns:   DefaultDatePatterns,
		dateLayouts:    DefaultDateLayouts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sample returns the leading non-null values, at most the configured sample size
func (c *Classifier) Sample(values []Value) []Value {
	sample := make([]Value, 0, min(len(values), c.sampleSize))
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		sample = append(sample, v)
		if len(sample) == c.sampleSize {
			break
		}
	}
	return sample
}

// Classify decides the column type. The boolean result is false when the column holds
// no non-null values; the decision is skipped in that case.
func (c *Classifier) Classify(values []Value) (ColumnType, bool, error) {
	sample := c.Sample(values)
	if len(sample) == 0 {
		return ColumnTypeText, false, nil
	}
	for _, v := range sample {
		if err := checkKind(v); err != nil {
			return ColumnTypeText, false, err
		}
	}

	if c.isDate(sample) {
		return ColumnTypeDate, true, nil
	}

	numbers, ok := c.parseAllNumbers(sample)
	if ok {
		if isWholeNumbers(numbers) {
			return ColumnTypeInteger, true, nil
		}
		return ColumnTypeFloat, true, nil
	}

	return ColumnTypeText, true, nil
}

// isDate reports whether the date sample has at least one pattern match and parses completely
func (c *Classifier) isDate(sample []Value) bool {
	if len(sample) > c.dateSampleSize {
		sample = sample[:c.dateSampleSize]
	}

	texts := make([]string, len(sample))
	for i, v := range sample {
		texts[i] = v.String()
	}

	matched := false
	for _, pattern := range c.datePatterns {
		for _, s := range texts {
			if pattern.MatchString(s) {
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}
	if !matched {
		return false
	}

	for _, s := range texts {
		if _, ok := c.parseDateString(s); !ok {
			return false
		}
	}
	return true
}

// parseAllNumbers parses every sample value, failing on the first unparsable one
func (c *Classifier) parseAllNumbers(sample []Value) ([]float64, bool) {
	numbers := make([]float64, 0, len(sample))
	for _, v := range sample {
		f, ok := c.ParseNumber(v)
		if !ok {
			return nil, false
		}
		numbers = append(numbers, f)
	}
	return numbers, true
}

// isWholeNumbers reports whether every number is finite with no fractional part
func isWholeNumbers(numbers []float64) bool {
	for _, f := range numbers {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		if math.Mod(f, 1) != 0 {
			return false
		}
	}
	return true
}

// ParseNumber converts a value to float64. Text is trimmed before parsing.
// Dates and nulls do not parse.
func (c *Classifier) ParseNumber(v Value) (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.NumberValue()
		return f, true
	case KindInteger:
		i, _ := v.IntegerValue()
		return float64(i), true
	case KindText:
		s, _ := v.TextValue()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseDate converts a value to time.Time. Only dates and date-like text parse.
func (c *Classifier) ParseDate(v Value) (time.Time, bool) {
	switch v.Kind() {
	case KindDate:
		t, _ := v.DateValue()
		return t, true
	case KindText:
		s, _ := v.TextValue()
		return c.parseDateString(s)
	default:
		return time.Time{}, false
	}
}

// parseDateString tries each configured layout in order
func (c *Classifier) parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range c.dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Coerce converts every value of the column to the representation of typ.
// Text stringifies every value, nulls included. Otherwise values that do not parse become null. Integer coercion fails as a whole when a parsed
// number is fractional, non-finite or outside the int64 range.
func (c *Classifier) Coerce(values []Value, typ ColumnType) ([]Value, error) {
	out := make([]Value, len(values))
	for i, v := range values {
		if err := checkKind(v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if v.IsNull() {
			if typ == ColumnTypeText {
				out[i] = Text(NullText)
			} else {
				out[i] = Null()
			}
			continue
		}

		switch typ {
		case ColumnTypeDate:
			if t, ok := c.ParseDate(v); ok {
				out[i] = Date(t)
			} else {
				out[i] = Null()
			}
		case ColumnTypeFloat:
			if f, ok := c.ParseNumber(v); ok {
				out[i] = Number(f)
			} else {
				out[i] = Null()
			}
		case ColumnTypeInteger:
			f, ok := c.ParseNumber(v)
			if !ok {
				out[i] = Null()
				continue
			}
			n, err := toInt64(f)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out[i] = Integer(n)
		default:
			out[i] = Text(v.String())
		}
	}
	return out, nil
}

// toInt64 converts a whole, in-range float to int64
func toInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Mod(f, 1) != 0 {
		return 0, fmt.Errorf("%w: %v", ErrLossyInteger, f)
	}
	if f < minInt64Float || f >= maxInt64Float {
		return 0, fmt.Errorf("%w: %v out of range", ErrLossyInteger, f)
	}
	return int64(f), nil
}

// Stringify converts every value to text. Nulls become NullText.
func Stringify(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		if v.IsNull() {
			out[i] = Text(NullText)
			continue
		}
		out[i] = Text(v.String())
	}
	return out
}

// checkKind rejects values carrying an unknown kind tag
func checkKind(v Value) error {
	switch v.Kind() {
	case KindNull, KindText, KindNumber, KindInteger, KindDate:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedValue, v.Kind())
	}
}
