package txlog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// emptyLog is the serialized form of a log with no records.
const emptyLog = "[]"

// --------------------------------------------------------------------------
// Logger Implementation
// --------------------------------------------------------------------------

// loggerImpl is the file-backed ITransactionLogger. The mutex guards the
// sequence counter and all access to the log file; it is deliberately
// independent of any lock held by the calling store, so log appends only
// serialize with other logger activity.
type loggerImpl struct {
	mu      sync.Mutex
	counter uint64
	logFile string
	log     *slog.Logger

	// in-process counters, safe to read without mu
	appends *xsync.MapOf[Operation, *xsync.Counter]
	dropped *xsync.Counter
}

// Options configures a logger created by New.
type Options struct {
	// LogFile is the path of the JSON log file. If empty, records are not
	// retained: they are only emitted to the diagnostic sink on append.
	LogFile string
	// Log receives diagnostics and, for a fileless logger, the transient
	// record stream. Defaults to slog.Default().
	Log *slog.Logger
}

// New creates a transaction logger. If a log file is configured, its parent
// directory is created and the file is initialized to an empty log when it
// does not exist yet.
func New(opts Options) (ITransactionLogger, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	l := &loggerImpl{
		logFile: opts.LogFile,
		log:     log,
		appends: xsync.NewMapOf[Operation, *xsync.Counter](),
		dropped: xsync.NewCounter(),
	}

	if l.logFile != "" {
		if dir := filepath.Dir(l.logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if _, err := os.Stat(l.logFile); os.IsNotExist(err) {
			if err := os.WriteFile(l.logFile, []byte(emptyLog), 0o644); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
	}

	return l, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (l *loggerImpl) Append(txn Transaction) {
	ts := txn.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.counter++
	rec := Record{
		TransactionID: l.counter,
		Operation:     txn.Operation,
		Timestamp:     ts,
		Key:           txn.Key,
		Value:         txn.Value,
		OldValue:      txn.OldValue,
		Metadata:      txn.Metadata,
	}

	l.countAppend(txn.Operation)

	if l.logFile == "" {
		// No file configured: the record is only observable here.
		l.log.Info("transaction",
			"transaction_id", rec.TransactionID,
			"operation", string(rec.Operation),
			"key", rec.Key,
		)
		return
	}

	records := l.readLocked()
	records = append(records, rec)
	if err := l.writeLocked(records); err != nil {
		// Best-effort durability: report and count, never fail the caller.
		l.dropped.Inc()
		l.log.Warn("transaction log append failed",
			"log_file", l.logFile,
			"transaction_id", rec.TransactionID,
			"err", err,
		)
	}
}

func (l *loggerImpl) Query(f Filter) []Record {
	l.mu.Lock()
	records := l.readLocked()
	l.mu.Unlock()

	filtered := records[:0:0]
	for _, rec := range records {
		if f.Operation != "" && rec.Operation != f.Operation {
			continue
		}
		if f.Key != "" && rec.Key != f.Key {
			continue
		}
		filtered = append(filtered, rec)
	}

	// Limit keeps the most recent matches, not the first.
	if f.Limit > 0 && len(filtered) > f.Limit {
		filtered = filtered[len(filtered)-f.Limit:]
	}

	return filtered
}

func (l *loggerImpl) Clear() error {
	if l.logFile == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// The counter keeps running so ids stay unique after a clear.
	return os.WriteFile(l.logFile, []byte(emptyLog), 0o644)
}

func (l *loggerImpl) Info() Info {
	l.mu.Lock()
	lastID := l.counter
	l.mu.Unlock()

	appends := make(map[Operation]uint64)
	l.appends.Range(func(op Operation, c *xsync.Counter) bool {
		appends[op] = uint64(c.Value())
		return true
	})

	return Info{
		LogFile:  l.logFile,
		LastID:   lastID,
		Appends:  appends,
		Dropped:  uint64(l.dropped.Value()),
		Retained: l.logFile != "",
	}
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// readLocked reads the full record sequence from disk. A missing or
// corrupted log file is treated as an empty log so that the store stays
// usable even when its audit trail is damaged. Caller must hold mu.
func (l *loggerImpl) readLocked() []Record {
	if l.logFile == "" {
		return nil
	}

	data, err := os.ReadFile(l.logFile)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("transaction log unreadable", "log_file", l.logFile, "err", err)
		}
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		l.log.Warn("transaction log corrupted, treating as empty",
			"log_file", l.logFile, "err", err)
		return nil
	}

	return records
}

// writeLocked rewrites the full record sequence. The rewrite is not atomic;
// a crash mid-write can truncate the log (known limitation of the format).
// Caller must hold mu.
func (l *loggerImpl) writeLocked(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.logFile, data, 0o644)
}

// countAppend bumps the in-process counter for the given operation.
func (l *loggerImpl) countAppend(op Operation) {
	c, _ := l.appends.LoadOrCompute(op, func() *xsync.Counter {
		return xsync.NewCounter()
	})
	c.Inc()
}
