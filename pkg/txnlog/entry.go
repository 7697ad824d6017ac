package txnlog

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Transaction is the payload of a log entry: a string-keyed mapping to
// arbitrary, possibly nested values.
type Transaction map[string]any

// Entry is one transaction record as persisted to, or decoded from, the
// log file. Raw is set instead of the other fields when a persisted
// line could not be decoded in the configured format.
type Entry struct {
	Timestamp   string
	Level       Level
	Transaction Transaction
	Raw         string
}

// wireEntry is the JSON shape of a persisted entry.
type wireEntry struct {
	Timestamp   string         `json:"timestamp"`
	Level       string         `json:"level"`
	Transaction map[string]any `json:"transaction"`
}

const timestampLayout = "2006-01-02T15:04:05.000000"

// newEntry stamps a transaction with the current UTC time and a
// normalized level.
func newEntry(txn Transaction, level Level) *Entry {
	return &Entry{
		Timestamp:   time.Now().UTC().Format(timestampLayout) + "Z",
		Level:       level.normalize(),
		Transaction: txn,
	}
}

// encodeLine renders an entry as one line in the given format, without
// the trailing newline. Encoding never fails: values the format cannot
// represent are sanitized to their textual form first.
func encodeLine(e *Entry, format Format) []byte {
	if format == FormatText {
		return []byte(fmt.Sprintf("[%s] %s: %s", e.Timestamp, e.Level, encodePayload(e.Transaction)))
	}
	b, err := json.Marshal(wireEntry{
		Timestamp:   e.Timestamp,
		Level:       string(e.Level),
		Transaction: sanitizeMap(e.Transaction),
	})
	if err != nil {
		// Unreachable after sanitize, but a lost entry is worse than a
		// degraded one.
		b, _ = json.Marshal(map[string]string{"raw": fmt.Sprint(e.Transaction)})
	}
	return b
}

// encodeJSON renders an entry for JSON export. Raw-wrapped entries
// become {"raw": line} records.
func encodeJSON(e *Entry) []byte {
	if e.Raw != "" {
		b, _ := json.Marshal(map[string]string{"raw": e.Raw})
		return b
	}
	return encodeLine(e, FormatJSON)
}

// decodeLine parses one persisted line back into an entry. Lines that
// cannot be decoded degrade to a raw-wrapped entry; text-format files
// are always read back raw.
func decodeLine(line string, format Format) *Entry {
	if format != FormatJSON {
		return &Entry{Raw: line}
	}
	var w wireEntry
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return &Entry{Raw: line}
	}
	return &Entry{
		Timestamp:   w.Timestamp,
		Level:       Level(w.Level),
		Transaction: w.Transaction,
	}
}

// encodePayload renders a transaction as compact JSON text, used for
// text-format lines and tabular cells.
func encodePayload(v any) string {
	b, err := json.Marshal(sanitizeValue(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// sanitizeMap returns a copy of m with every value representable in
// JSON. A nil map sanitizes to an empty one so the persisted entry
// always carries a transaction object.
func sanitizeMap(m Transaction) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}
	return out
}

// sanitizeValue classifies a value as scalar, mapping, sequence, or
// other. Mappings and sequences are sanitized recursively; anything
// else that JSON cannot carry is converted to its textual form.
func sanitizeValue(v any) any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return t
	case Transaction:
		return sanitizeMap(t)
	case map[string]any:
		return sanitizeMap(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Sprint(v)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = sanitizeValue(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = sanitizeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem().Interface())
	default:
		return fmt.Sprint(v)
	}
}
