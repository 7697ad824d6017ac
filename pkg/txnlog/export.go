package txnlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/trackline/trackline/pkg/metrics"
)

// Export flushes pending entries, re-reads the active log file and
// rewrites it at path in the requested format. ExportJSON produces one
// JSON record per line; ExportCSV produces a table whose columns are
// the sorted union of all transaction keys plus _timestamp and _level.
// A missing source file exports an empty dataset.
func (l *Logger) Export(path string, format ExportFormat) error {
	if format != ExportJSON && format != ExportCSV {
		return fmt.Errorf("%w: export format must be %q or %q, got %q",
			ErrConfiguration, ExportJSON, ExportCSV, format)
	}

	entries, err := l.readEntries()
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}
	defer out.Close()

	if format == ExportJSON {
		err = exportJSON(out, entries)
	} else {
		err = exportCSV(out, entries)
	}
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finish export %s: %w", path, err)
	}
	metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	return nil
}

func exportJSON(out *os.File, entries []*Entry) error {
	for _, e := range entries {
		if _, err := out.Write(append(encodeJSON(e), '\n')); err != nil {
			return fmt.Errorf("write export record: %w", err)
		}
	}
	return nil
}

func exportCSV(out *os.File, entries []*Entry) error {
	rows := make([]map[string]any, 0, len(entries))
	headerSet := make(map[string]struct{})
	for _, e := range entries {
		row := tabularRow(e)
		for k := range row {
			headerSet[k] = struct{}{}
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(headerSet))
	for k := range headerSet {
		header = append(header, k)
	}
	sort.Strings(header)

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			v, ok := row[col]
			if !ok {
				record[i] = ""
				continue
			}
			record[i] = csvCell(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// tabularRow flattens an entry for CSV export. Decoded entries spread
// their transaction keys as columns plus the two metadata columns;
// anything else lands in a single "raw" column.
func tabularRow(e *Entry) map[string]any {
	if e.Raw == "" && e.Transaction != nil {
		row := make(map[string]any, len(e.Transaction)+2)
		for k, v := range e.Transaction {
			row[k] = v
		}
		row["_timestamp"] = e.Timestamp
		row["_level"] = string(e.Level)
		return row
	}
	raw := e.Raw
	if raw == "" {
		raw = string(encodeLine(e, FormatJSON))
	}
	return map[string]any{"raw": raw}
}

// csvCell renders one cell. Scalars pass through; everything else is
// encoded as compact JSON.
func csvCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		return encodePayload(v)
	}
}
