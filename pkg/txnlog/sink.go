package txnlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/trackline/trackline/pkg/metrics"
)

// fileSink writes to a size-bounded file with numbered backups. It is
// shared between all loggers that resolve to the same path, so every
// method that touches the file takes its own lock.
type fileSink struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	backups  int

	f    *os.File
	w    *bufio.Writer
	size int64

	// refs is managed by the registry under its own lock.
	refs int
}

func openFileSink(path string, maxBytes int64, backups int) (*fileSink, error) {
	s := &fileSink{path: path, maxBytes: maxBytes, backups: backups}
	if err := s.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileSink) open(mode int) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|mode, 0644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file %s: %w", s.path, err)
	}
	s.f = f
	s.w = bufio.NewWriter(f)
	s.size = info.Size()
	return nil
}

func (s *fileSink) write(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return fmt.Errorf("sink for %s is closed", s.path)
	}
	if s.maxBytes > 0 && s.size+int64(len(line))+1 > s.maxBytes {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	n, err := s.w.Write(append(line, '\n'))
	s.size += int64(n)
	return err
}

// rotate rolls the active file to ".1", shifting existing backups up
// and dropping the oldest. With no backups configured the active file
// is truncated in place. Caller holds s.mu.
func (s *fileSink) rotate() error {
	s.w.Flush()
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close before rotate: %w", err)
	}
	s.f = nil

	if s.backups > 0 {
		os.Remove(s.backupName(s.backups))
		for i := s.backups - 1; i >= 1; i-- {
			src := s.backupName(i)
			if _, err := os.Stat(src); err == nil {
				os.Rename(src, s.backupName(i+1))
			}
		}
		if err := os.Rename(s.path, s.backupName(1)); err != nil {
			return fmt.Errorf("rotate %s: %w", s.path, err)
		}
	}

	metrics.Rotations.Inc()
	return s.open(os.O_TRUNC)
}

func (s *fileSink) backupName(n int) string {
	return s.path + "." + strconv.Itoa(n)
}

func (s *fileSink) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	return s.w.Flush()
}

func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	s.w.Flush()
	err := s.f.Close()
	s.f = nil
	s.w = nil
	return err
}

// consoleSink mirrors entries to a writer, stderr by default. It never
// closes the underlying stream.
type consoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

func newConsoleSink(out io.Writer, lvl Level) *consoleSink {
	if out == nil {
		out = os.Stderr
	}
	return &consoleSink{out: out, level: lvl}
}

func (s *consoleSink) write(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, string(line))
	return err
}

func (s *consoleSink) setFloor(lvl Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = lvl
}

func (s *consoleSink) floor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == "" {
		return 0
	}
	return s.level.rank()
}

func (s *consoleSink) close() error { return nil }
