package txnlog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/trackline/trackline/pkg/metrics"
)

// ErrClosed indicates an operation on a logger after Close.
var ErrClosed = errors.New("logger is closed")

// Logger is a thread-safe transaction logger. Entries are serialized
// in the configured format and written to a shared rotating file sink,
// optionally mirrored to the console, with optional in-memory
// batching. See New for construction.
type Logger struct {
	cfg  Config
	diag zerolog.Logger

	mu      sync.Mutex
	level   Level
	buffer  []*Entry
	file    *fileSink
	console *consoleSink
	closed  bool
}

// New constructs a Logger from cfg. The destination is resolved to an
// absolute path; if another logger in this process already writes
// there, the underlying file sink is shared rather than opened twice.
// The caller owns the result and must Close it to release the sink.
func New(cfg Config) (*Logger, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	file, err := acquireFileSink(cfg.Path, cfg.MaxBytes, cfg.BackupCount)
	if err != nil {
		return nil, err
	}

	return &Logger{
		cfg:   cfg,
		diag:  cfg.Diag.With().Str("logger", cfg.Name).Logger(),
		level: cfg.Level,
		file:  file,
	}, nil
}

// Name returns the identity of this logger instance.
func (l *Logger) Name() string { return l.cfg.Name }

// Path returns the resolved destination file.
func (l *Logger) Path() string { return l.cfg.Path }

// Log records a transaction at the given level. The entry is stamped
// with the current UTC time. With buffering enabled the entry is held
// in memory and the whole buffer is flushed synchronously the moment
// it reaches the configured size; otherwise the entry is written
// immediately.
func (l *Logger) Log(txn Transaction, level Level) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction must be a non-nil mapping", ErrInvalidPayload)
	}
	e := newEntry(txn, level)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	if l.cfg.BufferSize > 0 {
		l.buffer = append(l.buffer, e)
		metrics.EntriesBuffered.Inc()
		if len(l.buffer) >= l.cfg.BufferSize {
			l.flushLocked()
		}
		return nil
	}
	return l.emitLocked(e)
}

// Debug records a transaction at DEBUG level.
func (l *Logger) Debug(txn Transaction) error { return l.Log(txn, LevelDebug) }

// Info records a transaction at INFO level.
func (l *Logger) Info(txn Transaction) error { return l.Log(txn, LevelInfo) }

// Warning records a transaction at WARNING level.
func (l *Logger) Warning(txn Transaction) error { return l.Log(txn, LevelWarning) }

// Error records a transaction at ERROR level.
func (l *Logger) Error(txn Transaction) error { return l.Log(txn, LevelError) }

// Flush writes all buffered entries to the sinks in insertion order
// and clears the buffer. A failure writing one entry does not stop the
// rest. No-op when the buffer is empty.
func (l *Logger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

// flushLocked is the flush body, factored out so Log can trigger a
// flush while already holding the lock.
func (l *Logger) flushLocked() {
	if len(l.buffer) == 0 {
		return
	}
	for _, e := range l.buffer {
		if err := l.emitLocked(e); err != nil {
			l.diag.Warn().Err(err).Msg("dropping entry after write failure")
		}
	}
	l.buffer = nil
	metrics.Flushes.Inc()
}

// ClearBuffer discards all buffered entries without writing them.
func (l *Logger) ClearBuffer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	metrics.EntriesDiscarded.Add(float64(len(l.buffer)))
	l.buffer = nil
}

// emitLocked serializes one entry and writes it to every sink whose
// severity floor it clears, then flushes each sink. The file sink is
// shared between loggers on the same path, so its gate is this
// instance's threshold rather than sink-held state. Caller holds l.mu.
func (l *Logger) emitLocked(e *Entry) error {
	rank := e.Level.rank()
	if rank < l.level.rank() {
		return nil
	}

	line := encodeLine(e, l.cfg.Format)
	var firstErr error
	if err := l.file.write(line); err != nil {
		metrics.WriteErrors.Inc()
		firstErr = err
	} else if err := l.file.flush(); err != nil {
		l.diag.Debug().Err(err).Msg("file sink flush failed")
	}

	if l.console != nil && rank >= l.console.floor() {
		if err := l.console.write(line); err != nil {
			metrics.WriteErrors.Inc()
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr == nil {
		metrics.EntriesWritten.WithLabelValues(string(e.Level)).Inc()
	}
	return firstErr
}

// EnableConsole attaches or detaches a console mirror on stderr. It is
// idempotent: enabling twice keeps a single mirror, disabling one that
// is not attached does nothing. A non-empty level sets an independent
// severity floor for the mirror only; unknown names floor at INFO.
func (l *Logger) EnableConsole(enable bool, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !enable {
		l.console = nil
		return
	}

	var floor Level
	if level != "" {
		lvl, err := ParseLevel(string(level))
		if err != nil {
			lvl = LevelInfo
		}
		floor = lvl
	}
	if l.console == nil {
		l.console = newConsoleSink(nil, floor)
		return
	}
	if floor != "" {
		l.console.setFloor(floor)
	}
}

// SetLevel validates and applies a new severity threshold to this
// logger and every currently attached sink.
func (l *Logger) SetLevel(level Level) error {
	lvl, err := ParseLevel(string(level))
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
	if l.console != nil {
		l.console.setFloor(lvl)
	}
	return nil
}

// Close flushes any buffered entries, then flushes and releases every
// attached sink. It is safe to call more than once; failures shutting
// down an individual sink are swallowed so the rest still get
// released.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.flushLocked()

	if l.console != nil {
		if err := l.console.close(); err != nil {
			l.diag.Debug().Err(err).Msg("console sink close failed")
		}
		l.console = nil
	}
	if err := releaseFileSink(l.file); err != nil {
		l.diag.Warn().Err(err).Msg("file sink close failed")
	}
	l.closed = true
	return nil
}
