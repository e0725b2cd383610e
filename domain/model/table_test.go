package model

import (
	"errors"
	"testing"
)

func TestNewSheet(t *testing.T) {
	t.Parallel()

	headers := []HeaderLabel{NewHeaderLabel(Text("a")), NewHeaderLabel(Text("b"))}

	t.Run("valid sheet", func(t *testing.T) {
		t.Parallel()
		sheet, err := NewSheet("Data", headers, [][]Value{
			{Number(1), Number(2)},
			{Text("x"), Null()},
		})
		if err != nil {
			t.Fatalf("NewSheet() error = %v", err)
		}
		if sheet.Name() != "Data" {
			t.Errorf("Name() = %q, want %q", sheet.Name(), "Data")
		}
		if sheet.RowCount() != 2 {
			t.Errorf("RowCount() = %d, want 2", sheet.RowCount())
		}
	})

	t.Run("ragged columns", func(t *testing.T) {
		t.Parallel()
		_, err := NewSheet("Data", headers, [][]Value{{Number(1)}, {}})
		if !errors.Is(err, ErrRaggedColumns) {
			t.Errorf("NewSheet() error = %v, want %v", err, ErrRaggedColumns)
		}
	})

	t.Run("header count mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := NewSheet("Data", headers, [][]Value{{Number(1)}})
		if !errors.Is(err, ErrHeaderCount) {
			t.Errorf("NewSheet() error = %v, want %v", err, ErrHeaderCount)
		}
	})

	t.Run("no columns", func(t *testing.T) {
		t.Parallel()
		sheet, err := NewSheet("Empty", nil, nil)
		if err != nil {
			t.Fatalf("NewSheet() error = %v", err)
		}
		if sheet.RowCount() != 0 {
			t.Errorf("RowCount() = %d, want 0", sheet.RowCount())
		}
	})
}

func TestHeaderLabel_Raw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		label    HeaderLabel
		expected string
	}{
		{name: "scalar text", label: NewHeaderLabel(Text(" Name ")), expected: " Name "},
		{name: "scalar number", label: NewHeaderLabel(Number(2021)), expected: "2021"},
		{name: "scalar null", label: NewHeaderLabel(Null()), expected: ""},
		{name: "levels joined", label: NewMultiLevelHeaderLabel(Text(" Sales "), Text("Q1")), expected: "Sales_Q1"},
		{name: "null levels dropped", label: NewMultiLevelHeaderLabel(Null(), Text("Q1"), Null()), expected: "Q1"},
		{name: "all levels null", label: NewMultiLevelHeaderLabel(Null(), Null()), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.label.Raw(); got != tt.expected {
				t.Errorf("Raw() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewNormalizedTable(t *testing.T) {
	t.Parallel()

	revenue := NewColumn("revenue_usd", ColumnTypeInteger, []Value{Integer(100), Integer(200), Null()})
	empty := NewUnresolvedColumn("notes", []Value{Null(), Null(), Null()})

	table, err := NewNormalizedTable("Sales", 3, []*Column{revenue, empty})
	if err != nil {
		t.Fatalf("NewNormalizedTable() error = %v", err)
	}

	names := table.ColumnNames()
	if len(names) != 2 || names[0] != "revenue_usd" || names[1] != "notes" {
		t.Errorf("ColumnNames() = %v", names)
	}

	c, ok := table.Column("revenue_usd")
	if !ok {
		t.Fatal("Column(revenue_usd) not found")
	}
	if c.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", c.NullCount())
	}
	if c.TypeName() != "integer" {
		t.Errorf("TypeName() = %q, want %q", c.TypeName(), "integer")
	}
	if empty.Resolved() || empty.TypeName() != "unresolved" {
		t.Errorf("unresolved column reported as %q", empty.TypeName())
	}
	if _, ok := table.Column("missing"); ok {
		t.Error("Column(missing) should not be found")
	}

	_, err = NewNormalizedTable("Sales", 2, []*Column{revenue})
	if !errors.Is(err, ErrRaggedColumns) {
		t.Errorf("NewNormalizedTable() error = %v, want %v", err, ErrRaggedColumns)
	}
}
