package txnlog

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/trackline/trackline/pkg/metrics"
)

// Predicate is a boolean test applied to each decoded entry during a
// query scan.
type Predicate func(*Entry) bool

// matchAll is the default predicate.
func matchAll(*Entry) bool { return true }

// Query flushes pending entries, then scans the active log file and
// returns every entry the predicate matches, in file order. A nil
// predicate matches everything. Lines that cannot be decoded are
// presented as raw-wrapped entries; a predicate that panics on one
// entry counts it as a non-match and the scan continues. A missing
// destination file yields an empty result.
//
// Entries that have rotated into a numbered backup are not scanned.
func (l *Logger) Query(pred Predicate) ([]*Entry, error) {
	if pred == nil {
		pred = matchAll
	}
	metrics.QueriesTotal.Inc()

	entries, err := l.readEntries()
	if err != nil {
		return nil, err
	}
	var matched []*Entry
	for _, e := range entries {
		if safeMatch(pred, e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Count returns the number of entries matching the predicate, all of
// them when the predicate is nil.
func (l *Logger) Count(pred Predicate) (int, error) {
	entries, err := l.Query(pred)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// readEntries flushes, then decodes every line of the active file.
func (l *Logger) readEntries() ([]*Entry, error) {
	l.Flush()

	f, err := os.Open(l.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", l.cfg.Path, err)
	}
	defer f.Close()

	var entries []*Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, decodeLine(line, l.cfg.Format))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.cfg.Path, err)
	}
	return entries, nil
}

// safeMatch applies the predicate, converting a panic into a
// non-match.
func safeMatch(pred Predicate, e *Entry) (match bool) {
	defer func() {
		if recover() != nil {
			match = false
		}
	}()
	return pred(e)
}
