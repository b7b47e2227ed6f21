package store

import (
	"errors"
	"fmt"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for interacting with a key-value store.
// Mutating operations return only an error (nil on success), while read
// operations return the requested data along with an error (nil on success).
//
// Every keyed operation validates its key: the key must be non-empty after
// trimming leading and trailing whitespace. Put additionally rejects the
// null value - store an explicit empty string or empty object instead.
type IStore interface {
	// Put inserts or updates a key-value pair. After Put returns, the
	// new state has been persisted to the data file (if one is configured).
	Put(key string, v value.Value) error
	// Get returns the value for a key. A missing key is reported with
	// ErrCodeKeyNotFound. Each successful Get is recorded in the
	// transaction log as a read-audit record.
	Get(key string) (value.Value, error)
	// Delete removes a key-value pair and returns the removed value.
	// A missing key is reported with ErrCodeKeyNotFound.
	Delete(key string) (value.Value, error)
	// Clear removes all entries.
	Clear() error
	// Size returns the number of entries currently stored.
	Size() int
	// Exists reports whether a key is present. Unlike Get it does not
	// produce a transaction log record.
	Exists(key string) (bool, error)
	// Keys returns a snapshot of all keys in sorted order.
	Keys() []string
	// Values returns a snapshot of all values, ordered by their keys.
	Values() []value.Value
	// Entries returns a snapshot of all key-value pairs in key order.
	Entries() []Entry
	// Info returns metadata about the store instance.
	Info() Info
}

// Entry is a single key-value pair as returned by Entries.
type Entry struct {
	Key   string      `json:"key"`
	Value value.Value `json:"value"`
}

// Info describes a store instance.
type Info struct {
	Entries  int    `json:"entries"`
	DataFile string `json:"data_file,omitempty"`
	Durable  bool   `json:"durable"`
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by all store operations. It wraps an
// error code (of type ErrCode) together with the offending key or value
// and a human-readable reason.
type Error struct {
	Code   ErrCode     // The error code
	Key    string      // The offending key, if applicable
	Value  value.Value // The offending value, if applicable
	Reason string      // The human-readable reason
	Err    error       // The underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidKey:
		return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
	case ErrCodeInvalidValue:
		return fmt.Sprintf("invalid value %s: %s", e.Value, e.Reason)
	case ErrCodeKeyNotFound:
		return fmt.Sprintf("key %q not found", e.Key)
	case ErrCodeTransaction:
		if e.Err != nil {
			return fmt.Sprintf("transaction failed: %s: %v", e.Reason, e.Err)
		}
		return fmt.Sprintf("transaction failed: %s", e.Reason)
	default:
		return fmt.Sprintf("store error (code %d): %s", e.Code, e.Reason)
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidKeyError creates an Error reporting a key that failed validation.
func NewInvalidKeyError(key, reason string) *Error {
	return &Error{Code: ErrCodeInvalidKey, Key: key, Reason: reason}
}

// NewInvalidValueError creates an Error reporting a value rejected on Put.
func NewInvalidValueError(v value.Value, reason string) *Error {
	return &Error{Code: ErrCodeInvalidValue, Value: v, Reason: reason}
}

// NewKeyNotFoundError creates an Error reporting an absent key.
func NewKeyNotFoundError(key string) *Error {
	return &Error{Code: ErrCodeKeyNotFound, Key: key}
}

// NewTransactionError creates an Error reporting a persistence or load
// failure. The cause may be nil.
func NewTransactionError(reason string, cause error) *Error {
	return &Error{Code: ErrCodeTransaction, Reason: reason, Err: cause}
}

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint64

const (
	ErrCodeInvalidKey   ErrCode = iota + 1 // 1: Key is empty or whitespace-only.
	ErrCodeInvalidValue                    // 2: Value is the null sentinel.
	ErrCodeKeyNotFound                     // 3: Get/Delete targeted an absent key.
	ErrCodeTransaction                     // 4: Persistence or load failure.
)

// hasCode reports whether err is a *Error carrying the given code.
func hasCode(err error, code ErrCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsInvalidKey reports whether err signals a failed key validation.
func IsInvalidKey(err error) bool { return hasCode(err, ErrCodeInvalidKey) }

// IsInvalidValue reports whether err signals a rejected value.
func IsInvalidValue(err error) bool { return hasCode(err, ErrCodeInvalidValue) }

// IsKeyNotFound reports whether err signals an absent key.
func IsKeyNotFound(err error) bool { return hasCode(err, ErrCodeKeyNotFound) }

// IsTransaction reports whether err signals a persistence or load failure.
func IsTransaction(err error) bool { return hasCode(err, ErrCodeTransaction) }
