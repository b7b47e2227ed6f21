package fstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/txlog"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	putTotal    = metrics.NewCounter(`kvstore_operations_total{operation="put"}`)
	getTotal    = metrics.NewCounter(`kvstore_operations_total{operation="get"}`)
	deleteTotal = metrics.NewCounter(`kvstore_operations_total{operation="delete"}`)
	clearTotal  = metrics.NewCounter(`kvstore_operations_total{operation="clear"}`)

	validationErrors  = metrics.NewCounter(`kvstore_errors_total{kind="validation"}`)
	notFoundErrors    = metrics.NewCounter(`kvstore_errors_total{kind="not_found"}`)
	transactionErrors = metrics.NewCounter(`kvstore_errors_total{kind="transaction"}`)
)

// --------------------------------------------------------------------------
// Store Implementation
// --------------------------------------------------------------------------

// storeImpl holds the in-memory map behind a single reader/writer lock.
// Readers (Get, Exists, Size, Keys, Values, Entries) take the lock in read
// mode, writers (Put, Delete, Clear) in write mode. The whole sequence
// "mutate map -> persist snapshot -> append log record" runs under the
// write lock, so no operation ever observes a map state that has not been
// persisted and no two mutations interleave their snapshot writes.
type storeImpl struct {
	mu       sync.RWMutex
	data     map[string]value.Value
	dataFile string
	logger   txlog.ITransactionLogger
	metadata map[string]string
	log      *slog.Logger
}

// Options configures a store created by New.
type Options struct {
	// DataFile is the path of the JSON snapshot file. If empty, the store
	// is purely in-memory and non-durable.
	DataFile string
	// Logger receives a record for every Put, Get, Delete and Clear.
	// May be nil, in which case no transaction log is kept.
	Logger txlog.ITransactionLogger
	// Metadata is stamped onto every transaction record, e.g. to identify
	// the process or invocation that performed the operation.
	Metadata map[string]string
	// Log receives diagnostics. Defaults to slog.Default().
	Log *slog.Logger
}

// New creates a store and, if a data file is configured and exists, loads
// its full contents as the initial map. A malformed data file fails
// construction with a transaction error.
func New(opts Options) (store.IStore, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	s := &storeImpl{
		data:     make(map[string]value.Value),
		dataFile: opts.DataFile,
		logger:   opts.Logger,
		metadata: opts.Metadata,
		log:      log,
	}

	if s.dataFile != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
		log.Debug("store loaded", "data_file", s.dataFile, "entries", len(s.data))
	}

	return s, nil
}

// --------------------------------------------------------------------------
// Validation
// --------------------------------------------------------------------------

// validateKey enforces the key rule shared by every keyed operation: the
// key must be non-empty after stripping leading and trailing whitespace.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		validationErrors.Inc()
		return store.NewInvalidKeyError(key, "key must not be empty or whitespace-only")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods - Write Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(key string, v value.Value) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if v.IsNull() {
		validationErrors.Inc()
		return store.NewInvalidValueError(v, "null is not a storable value")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.data[key]
	s.data[key] = v

	if err := s.persistLocked(); err != nil {
		return err
	}

	rec := txlog.Transaction{
		Operation: txlog.OpPut,
		Key:       key,
		Value:     &v,
		Timestamp: time.Now(),
		Metadata:  s.metadata,
	}
	if existed {
		rec.OldValue = &old
	}
	s.appendLog(rec)

	putTotal.Inc()
	return nil
}

func (s *storeImpl) Delete(key string) (value.Value, error) {
	if err := validateKey(key); err != nil {
		return value.Null(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.data[key]
	if !existed {
		notFoundErrors.Inc()
		return value.Null(), store.NewKeyNotFoundError(key)
	}
	delete(s.data, key)

	if err := s.persistLocked(); err != nil {
		return value.Null(), err
	}

	s.appendLog(txlog.Transaction{
		Operation: txlog.OpDelete,
		Key:       key,
		OldValue:  &old,
		Timestamp: time.Now(),
		Metadata:  s.metadata,
	})

	deleteTotal.Inc()
	return old, nil
}

func (s *storeImpl) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]value.Value)

	if err := s.persistLocked(); err != nil {
		return err
	}

	s.appendLog(txlog.Transaction{
		Operation: txlog.OpClear,
		Timestamp: time.Now(),
		Metadata:  s.metadata,
	})

	clearTotal.Inc()
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods - Read Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (value.Value, error) {
	if err := validateKey(key); err != nil {
		return value.Null(), err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		notFoundErrors.Inc()
		return value.Null(), store.NewKeyNotFoundError(key)
	}

	// Read audit. Appending under the read lock is safe: the logger
	// serializes on its own lock, not on the map lock.
	s.appendLog(txlog.Transaction{
		Operation: txlog.OpGet,
		Key:       key,
		Value:     &v,
		Timestamp: time.Now(),
		Metadata:  s.metadata,
	})

	getTotal.Inc()
	return v, nil
}

func (s *storeImpl) Exists(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok, nil
}

func (s *storeImpl) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *storeImpl) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedKeysLocked()
}

func (s *storeImpl) Values() []value.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.sortedKeysLocked()
	values := make([]value.Value, len(keys))
	for i, k := range keys {
		values[i] = s.data[k]
	}
	return values
}

func (s *storeImpl) Entries() []store.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.sortedKeysLocked()
	entries := make([]store.Entry, len(keys))
	for i, k := range keys {
		entries[i] = store.Entry{Key: k, Value: s.data[k]}
	}
	return entries
}

func (s *storeImpl) Info() store.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return store.Info{
		Entries:  len(s.data),
		DataFile: s.dataFile,
		Durable:  s.dataFile != "",
	}
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// persistLocked serializes the entire map to the data file. The whole file
// is rewritten with a single write call, so a concurrent external reader
// never observes a transiently invalid snapshot. If persistence fails the
// in-memory mutation stays visible (the store fails dirty, not reverted)
// and the caller receives a transaction error. Caller must hold mu in
// write mode.
func (s *storeImpl) persistLocked() error {
	if s.dataFile == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		transactionErrors.Inc()
		return store.NewTransactionError("serializing snapshot", err)
	}
	if err := os.WriteFile(s.dataFile, data, 0o644); err != nil {
		transactionErrors.Inc()
		s.log.Error("snapshot write failed", "data_file", s.dataFile, "err", err)
		return store.NewTransactionError("writing snapshot", err)
	}
	return nil
}

// load parses the data file into the initial map. A missing file is fine,
// anything else that goes wrong is a transaction error.
func (s *storeImpl) load() error {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		transactionErrors.Inc()
		return store.NewTransactionError("reading snapshot", err)
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		transactionErrors.Inc()
		return store.NewTransactionError("parsing snapshot", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// appendLog forwards a transaction to the configured logger, if any.
// Logger failures never propagate here; txlog handles them internally.
func (s *storeImpl) appendLog(txn txlog.Transaction) {
	if s.logger != nil {
		s.logger.Append(txn)
	}
}

// sortedKeysLocked returns all keys in sorted order. Caller must hold mu.
func (s *storeImpl) sortedKeysLocked() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
