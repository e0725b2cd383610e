package main

import (
	"fmt"
	"strconv"
	"time"
)

// nullText is printed for missing values
const nullText = "NULL"

// formatCell renders one artifact or query value
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return nullText
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprint(val)
	}
}

// alignFor right-aligns numeric columns
func alignFor(numeric []bool) []columnAlignment {
	aligns := make([]columnAlignment, len(numeric))
	for i, n := range numeric {
		if n {
			aligns[i] = alignRight
		}
	}
	return aligns
}
