package txnlog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// hasField matches entries whose transaction carries the field.
func hasField(field string) Predicate {
	return func(e *Entry) bool {
		if e.Transaction == nil {
			return false
		}
		_, ok := e.Transaction[field]
		return ok
	}
}

// SumField sums the named transaction field over every persisted
// entry where it is present and numerically convertible. Absent or
// non-numeric values are skipped.
func (l *Logger) SumField(field string) (float64, error) {
	entries, err := l.Query(hasField(field))
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range entries {
		if v, ok := numericValue(e.Transaction[field]); ok {
			total += v
		}
	}
	return total, nil
}

// AvgField returns the mean of the named field over the same numeric
// subset SumField uses. The second result is false when no entry
// contributed a value.
func (l *Logger) AvgField(field string) (float64, bool, error) {
	entries, err := l.Query(hasField(field))
	if err != nil {
		return 0, false, err
	}
	var total float64
	var n int
	for _, e := range entries {
		if v, ok := numericValue(e.Transaction[field]); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return total / float64(n), true, nil
}

// numericValue converts a transaction value to float64 where a
// meaningful conversion exists, including numeric strings.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
