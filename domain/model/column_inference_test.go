package model

import (
	"errors"
	"math"
	"regexp"
	"testing"
	"time"
)

func texts(values ...string) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []Value
		expected ColumnType
	}{
		{
			name:     "ISO8601 dates",
			values:   texts("2021-01-05", "2021-02-10"),
			expected: ColumnTypeDate,
		},
		{
			name:     "integers as text",
			values:   texts("1", "2", "3"),
			expected: ColumnTypeInteger,
		},
		{
			name:     "floats as text",
			values:   texts("1.5", "2.25"),
			expected: ColumnTypeFloat,
		},
		{
			name:     "pattern match but unparsable date",
			values:   texts("abc", "2021-01-05x"),
			expected: ColumnTypeText,
		},
		{
			name:     "US dates",
			values:   texts("01/15/2023", "02/20/2023"),
			expected: ColumnTypeDate,
		},
		{
			name:     "day month year dates",
			values:   texts("05-Jan-2021", "10-feb-2021"),
			expected: ColumnTypeDate,
		},
		{
			name:     "one matching value is enough when all parse",
			values:   texts("2021-01-05", "Jan 6, 2021"),
			expected: ColumnTypeDate,
		},
		{
			name:     "parsable dates without any pattern match",
			values:   texts("Jan 6, 2021", "Feb 7, 2021"),
			expected: ColumnTypeText,
		},
		{
			name:     "native dates",
			values:   []Value{Date(time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)), Null()},
			expected: ColumnTypeDate,
		},
		{
			name:     "native whole numbers",
			values:   []Value{Number(100), Number(200), Null()},
			expected: ColumnTypeInteger,
		},
		{
			name:     "whole and fractional numbers",
			values:   []Value{Number(1), Number(2.5)},
			expected: ColumnTypeFloat,
		},
		{
			name:     "numeric text with whitespace",
			values:   texts(" 10 ", "20"),
			expected: ColumnTypeInteger,
		},
		{
			name:     "scientific notation",
			values:   texts("1e10", "2.5e-3"),
			expected: ColumnTypeFloat,
		},
		{
			name:     "infinity is not an integer",
			values:   texts("inf", "1"),
			expected: ColumnTypeFloat,
		},
		{
			name:     "mixed numbers and text",
			values:   []Value{Number(1), Text("hello")},
			expected: ColumnTypeText,
		},
		{
			name:     "numbers mixed with dates",
			values:   []Value{Number(1), Date(time.Now())},
			expected: ColumnTypeText,
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, resolved, err := c.Classify(tt.values)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if !resolved {
				t.Fatal("Classify() skipped a column with values")
			}
			if got != tt.expected {
				t.Errorf("Classify() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifier_DateTimeLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{name: "ISO minutes", value: "2021-01-05 10:30", expected: time.Date(2021, 1, 5, 10, 30, 0, 0, time.UTC)},
		{name: "ISO T separator minutes", value: "2021-01-05T10:30", expected: time.Date(2021, 1, 5, 10, 30, 0, 0, time.UTC)},
		{name: "ISO 12 hour", value: "2021-01-05 10:30 PM", expected: time.Date(2021, 1, 5, 22, 30, 0, 0, time.UTC)},
		{name: "ISO 12 hour seconds", value: "2021-01-05 9:30:15 AM", expected: time.Date(2021, 1, 5, 9, 30, 15, 0, time.UTC)},
		{name: "US minutes", value: "01/05/2021 10:30", expected: time.Date(2021, 1, 5, 10, 30, 0, 0, time.UTC)},
		{name: "US 12 hour", value: "01/05/2021 3:04 PM", expected: time.Date(2021, 1, 5, 15, 4, 0, 0, time.UTC)},
		{name: "US 12 hour seconds", value: "01/05/2021 10:30:15 PM", expected: time.Date(2021, 1, 5, 22, 30, 15, 0, time.UTC)},
		{name: "day month year minutes", value: "05-Jan-2021 10:30", expected: time.Date(2021, 1, 5, 10, 30, 0, 0, time.UTC)},
		{name: "day month year 12 hour", value: "05-Jan-2021 3:04 PM", expected: time.Date(2021, 1, 5, 15, 4, 0, 0, time.UTC)},
		{name: "day month year 12 hour seconds", value: "05-Jan-2021 11:59:59 PM", expected: time.Date(2021, 1, 5, 23, 59, 59, 0, time.UTC)},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			values := texts(tt.value, tt.value)
			got, _, err := c.Classify(values)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != ColumnTypeDate {
				t.Fatalf("Classify(%q) = %v, want %v", tt.value, got, ColumnTypeDate)
			}
			parsed, ok := c.ParseDate(Text(tt.value))
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.value)
			}
			if !parsed.Equal(tt.expected) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, parsed, tt.expected)
			}
		})
	}
}

func TestClassifier_EmptySampleIsSkipped(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	for _, values := range [][]Value{nil, {Null(), Null()}} {
		_, resolved, err := c.Classify(values)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if resolved {
			t.Errorf("Classify(%v) resolved a column without values", values)
		}
	}
}

func TestClassifier_SampleSize(t *testing.T) {
	t.Parallel()

	values := []Value{Null(), Number(1), Number(2), Null(), Text("later text")}

	t.Run("text beyond the sample is ignored", func(t *testing.T) {
		t.Parallel()
		c := NewClassifier(WithSampleSize(2))
		if got := c.Sample(values); len(got) != 2 {
			t.Fatalf("Sample() returned %d values, want 2", len(got))
		}
		got, _, err := c.Classify(values)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if got != ColumnTypeInteger {
			t.Errorf("Classify() = %v, want %v", got, ColumnTypeInteger)
		}
	})

	t.Run("invalid sample size keeps the default", func(t *testing.T) {
		t.Parallel()
		c := NewClassifier(WithSampleSize(0))
		got, _, err := c.Classify(values)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if got != ColumnTypeText {
			t.Errorf("Classify() = %v, want %v", got, ColumnTypeText)
		}
	})
}

func TestClassifier_DateSampleSize(t *testing.T) {
	t.Parallel()

	// only the leading date sample must parse
	values := texts("2021-01-05", "2021-01-06", "not a date")

	got, _, err := NewClassifier(WithDateSampleSize(2)).Classify(values)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != ColumnTypeDate {
		t.Errorf("Classify() = %v, want %v", got, ColumnTypeDate)
	}

	got, _, err = NewClassifier().Classify(values)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != ColumnTypeText {
		t.Errorf("Classify() = %v, want %v", got, ColumnTypeText)
	}
}

func TestClassifier_CustomDateTables(t *testing.T) {
	t.Parallel()

	c := NewClassifier(
		WithDatePatterns([]*regexp.Regexp{regexp.MustCompile(`^\d{8}$`)}),
		WithDateLayouts([]string{"20060102"}),
	)
	got, _, err := c.Classify(texts("20210105", "20210106"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != ColumnTypeDate {
		t.Errorf("Classify() = %v, want %v", got, ColumnTypeDate)
	}
}

func TestClassifier_UnsupportedKind(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	bad := []Value{Text("a"), {kind: ValueKind(42)}}
	if _, _, err := c.Classify(bad); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("Classify() error = %v, want %v", err, ErrUnsupportedValue)
	}
	if _, err := c.Coerce(bad, ColumnTypeText); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("Coerce() error = %v, want %v", err, ErrUnsupportedValue)
	}
}

func TestClassifier_Coerce(t *testing.T) {
	t.Parallel()

	jan5 := time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)
	malformed := []Value{
		Null(),
		Text("2021-01-05"),
		Text("garbage"),
		Number(12.5),
		Number(7),
		Date(jan5),
		Text(" 42 "),
	}

	t.Run("date", func(t *testing.T) {
		t.Parallel()
		got, err := NewClassifier().Coerce(malformed, ColumnTypeDate)
		if err != nil {
			t.Fatalf("Coerce() error = %v", err)
		}
		expected := []Value{Null(), Date(jan5), Null(), Null(), Null(), Date(jan5), Null()}
		assertValues(t, got, expected)
	})

	t.Run("float", func(t *testing.T) {
		t.Parallel()
		got, err := NewClassifier().Coerce(malformed, ColumnTypeFloat)
		if err != nil {
			t.Fatalf("Coerce() error = %v", err)
		}
		expected := []Value{Null(), Null(), Null(), Number(12.5), Number(7), Null(), Number(42)}
		assertValues(t, got, expected)
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		got, err := NewClassifier().Coerce(malformed, ColumnTypeText)
		if err != nil {
			t.Fatalf("Coerce() error = %v", err)
		}
		expected := []Value{
			Text("nan"), Text("2021-01-05"), Text("garbage"), Text("12.5"), Text("7"),
			Text("2021-01-05 00:00:00"), Text(" 42 "),
		}
		assertValues(t, got, expected)
	})

	t.Run("integer", func(t *testing.T) {
		t.Parallel()
		values := []Value{Number(100), Number(200), Null(), Text("x"), Text("300")}
		got, err := NewClassifier().Coerce(values, ColumnTypeInteger)
		if err != nil {
			t.Fatalf("Coerce() error = %v", err)
		}
		expected := []Value{Integer(100), Integer(200), Null(), Null(), Integer(300)}
		assertValues(t, got, expected)
	})

	t.Run("integer rejects fractional values", func(t *testing.T) {
		t.Parallel()
		_, err := NewClassifier().Coerce([]Value{Number(1), Number(1.5)}, ColumnTypeInteger)
		if !errors.Is(err, ErrLossyInteger) {
			t.Errorf("Coerce() error = %v, want %v", err, ErrLossyInteger)
		}
	})

	t.Run("integer rejects out of range values", func(t *testing.T) {
		t.Parallel()
		_, err := NewClassifier().Coerce([]Value{Number(1e20)}, ColumnTypeInteger)
		if !errors.Is(err, ErrLossyInteger) {
			t.Errorf("Coerce() error = %v, want %v", err, ErrLossyInteger)
		}
		_, err = NewClassifier().Coerce([]Value{Number(math.Inf(1))}, ColumnTypeInteger)
		if !errors.Is(err, ErrLossyInteger) {
			t.Errorf("Coerce() error = %v, want %v", err, ErrLossyInteger)
		}
	})

	t.Run("length is preserved", func(t *testing.T) {
		t.Parallel()
		for _, typ := range []ColumnType{ColumnTypeDate, ColumnTypeFloat, ColumnTypeText} {
			got, err := NewClassifier().Coerce(malformed, typ)
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", typ, err)
			}
			if len(got) != len(malformed) {
				t.Errorf("Coerce(%v) returned %d values, want %d", typ, len(got), len(malformed))
			}
		}
	})
}

func TestStringify(t *testing.T) {
	t.Parallel()

	got := Stringify([]Value{Integer(3), Null(), Number(0.25)})
	assertValues(t, got, []Value{Text("3"), Text("nan"), Text("0.25")})
}

func TestClassifier_TextColumnHasNoNulls(t *testing.T) {
	t.Parallel()

	values := []Value{Text("abc"), Null(), Text("x"), Null()}
	c := NewClassifier()

	typ, resolved, err := c.Classify(values)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !resolved || typ != ColumnTypeText {
		t.Fatalf("Classify() = %v (resolved %v), want %v", typ, resolved, ColumnTypeText)
	}

	coerced, err := c.Coerce(values, typ)
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	assertValues(t, coerced, []Value{Text("abc"), Text("nan"), Text("x"), Text("nan")})

	column := NewColumn("notes", typ, coerced)
	if got := column.NullCount(); got != 0 {
		t.Errorf("NullCount() = %d, want 0", got)
	}
}

func assertValues(t *testing.T, got, expected []Value) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("got %d values, want %d", len(got), len(expected))
	}
	for i := range got {
		if !got[i].Equal(expected[i]) {
			t.Errorf("value %d = %v (%v), want %v (%v)", i, got[i], got[i].Kind(), expected[i], expected[i].Kind())
		}
	}
}
