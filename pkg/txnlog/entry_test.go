package txnlog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"nil", nil, nil},
		{"string", "s", "s"},
		{"float", 1.5, 1.5},
		{"bool", true, true},
		{"nested map", map[string]any{"a": 1}, map[string]any{"a": 1}},
		{"sequence", []any{1, "b"}, []any{1, "b"}},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": 1}},
		{"typed slice", []int{1, 2}, []any{1, 2}},
		{"channel", make(chan int), nil}, // textual, checked below
		{"complex", complex(1, 2), "(1+2i)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeValue(tt.value)
			if tt.name == "channel" {
				assert.IsType(t, "", got, "unrepresentable values become text")
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeLineNeverFails(t *testing.T) {
	e := newEntry(Transaction{
		"ok":  1,
		"bad": func() {},
		"nested": map[string]any{
			"ch": make(chan int),
		},
	}, LevelInfo)

	line := encodeLine(e, FormatJSON)
	var w wireEntry
	require.NoError(t, json.Unmarshal(line, &w))
	assert.Equal(t, 1.0, w.Transaction["ok"])
	assert.IsType(t, "", w.Transaction["bad"])
}

func TestEncodeDecodeSymmetry(t *testing.T) {
	e := newEntry(Transaction{"id": 1.0, "note": "hello"}, Level("warning"))
	line := encodeLine(e, FormatJSON)

	got := decodeLine(string(line), FormatJSON)
	assert.Equal(t, e.Timestamp, got.Timestamp)
	assert.Equal(t, LevelWarning, got.Level)
	assert.Equal(t, map[string]any(e.Transaction), got.Transaction)
	assert.Empty(t, got.Raw)
}

func TestDecodeLineFailures(t *testing.T) {
	e := decodeLine("not json at all", FormatJSON)
	assert.Equal(t, "not json at all", e.Raw)

	e = decodeLine(`[1,2,3]`, FormatJSON)
	assert.NotEmpty(t, e.Raw, "non-object JSON degrades to raw")
}

func TestTextLineShape(t *testing.T) {
	e := newEntry(Transaction{"k": "v"}, LevelError)
	line := string(encodeLine(e, FormatText))

	assert.True(t, strings.HasPrefix(line, "["))
	assert.Contains(t, line, "] ERROR: ")
	assert.Contains(t, line, `{"k":"v"}`)
}

func TestTimestampShape(t *testing.T) {
	e := newEntry(Transaction{}, LevelInfo)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}Z$`, e.Timestamp)
}
