package txnlog

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportCSV(t *testing.T) {
	lg := newTestLogger(t, Config{})

	require.NoError(t, lg.Info(Transaction{"id": 1, "amount": 9.99}))
	require.NoError(t, lg.Warning(Transaction{"id": 2, "status": "late", "tags": []any{"a", "b"}}))

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, lg.Export(out, ExportCSV))

	records := readCSV(t, out)
	require.Len(t, records, 3, "header plus one row per entry")

	header := records[0]
	assert.Equal(t, []string{"_level", "_timestamp", "amount", "id", "status", "tags"}, header)

	byCol := func(row []string, col string) string {
		for i, h := range header {
			if h == col {
				return row[i]
			}
		}
		t.Fatalf("column %s not in header", col)
		return ""
	}

	assert.Equal(t, "INFO", byCol(records[1], "_level"))
	assert.Equal(t, "9.99", byCol(records[1], "amount"))
	assert.Empty(t, byCol(records[1], "status"))

	assert.Equal(t, "WARNING", byCol(records[2], "_level"))
	assert.Equal(t, `["a","b"]`, byCol(records[2], "tags"), "non-scalar cells are compact JSON")
}

func TestExportRowCountMatchesQuery(t *testing.T) {
	lg := newTestLogger(t, Config{})
	for i := 0; i < 7; i++ {
		require.NoError(t, lg.Info(Transaction{"seq": i}))
	}

	entries, err := lg.Query(nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, lg.Export(out, ExportCSV))

	records := readCSV(t, out)
	assert.Len(t, records, len(entries)+1)
}

func TestExportJSON(t *testing.T) {
	lg := newTestLogger(t, Config{})
	require.NoError(t, lg.Info(Transaction{"id": 1}))
	require.NoError(t, lg.Error(Transaction{"id": 2}))

	out := filepath.Join(t.TempDir(), "out.ndjson")
	require.NoError(t, lg.Export(out, ExportJSON))

	lines := fileLines(t, out)
	require.Len(t, lines, 2)
	for i, line := range lines {
		var w wireEntry
		require.NoError(t, json.Unmarshal([]byte(line), &w))
		assert.Equal(t, float64(i+1), w.Transaction["id"])
	}
}

func TestExportMissingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.log")
	lg := newTestLogger(t, Config{Path: path})
	require.NoError(t, os.Remove(path))

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, lg.Export(out, ExportCSV))

	records := readCSV(t, out)
	assert.LessOrEqual(t, len(records), 1, "no data rows for an empty dataset")
}

func TestExportUnknownFormat(t *testing.T) {
	lg := newTestLogger(t, Config{})
	err := lg.Export(filepath.Join(t.TempDir(), "out.x"), "xml")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestExportRawLines(t *testing.T) {
	lg := newTestLogger(t, Config{})
	require.NoError(t, lg.Info(Transaction{"n": 1}))

	f, err := os.OpenFile(lg.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, lg.Export(out, ExportCSV))

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Contains(t, records[0], "raw")
}
