package txlog

import (
	"time"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
)

// --------------------------------------------------------------------------
// Operation Kinds
// --------------------------------------------------------------------------

// Operation is the kind of store operation a log record describes.
type Operation string

const (
	OpPut    Operation = "PUT"
	OpGet    Operation = "GET"
	OpDelete Operation = "DELETE"
	OpClear  Operation = "CLEAR"
)

// Valid reports whether op is one of the four known operation kinds.
func (op Operation) Valid() bool {
	switch op {
	case OpPut, OpGet, OpDelete, OpClear:
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Record and Transaction Types
// --------------------------------------------------------------------------

// Record is one immutable, append-only fact in the transaction log.
// Fields that do not apply to the record's operation kind are omitted from
// the serialized form rather than stored as null.
type Record struct {
	TransactionID uint64            `json:"transaction_id"`
	Operation     Operation         `json:"operation"`
	Timestamp     time.Time         `json:"timestamp"`
	Key           string            `json:"key,omitempty"`
	Value         *value.Value      `json:"value,omitempty"`
	OldValue      *value.Value      `json:"old_value,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Transaction describes an operation to be appended to the log. The
// sequence number and, if left zero, the timestamp are assigned by the
// logger itself.
type Transaction struct {
	Operation Operation
	Key       string
	Value     *value.Value
	OldValue  *value.Value
	Timestamp time.Time
	Metadata  map[string]string
}

// Filter selects records from the log. Zero fields match everything; the
// Operation and Key filters are AND-combined. A positive Limit keeps the
// LAST Limit records of the filtered result, i.e. the most recent matches.
type Filter struct {
	Operation Operation
	Key       string
	Limit     int
}

// Info carries in-process counters of a logger instance. The counters
// describe appends attempted during this process lifetime, not the content
// of the log file.
type Info struct {
	LogFile  string               `json:"log_file,omitempty"`
	LastID   uint64               `json:"last_transaction_id"`
	Appends  map[Operation]uint64 `json:"appends"`
	Dropped  uint64               `json:"dropped"`
	Retained bool                 `json:"retained"`
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ITransactionLogger is an append-only sink of transaction records with a
// query interface and an explicit truncation escape hatch.
//
// Appending is best-effort durability: an I/O failure during Append is
// reported to the diagnostic sink and counted, but never surfaced to the
// caller - logging must not fail an otherwise successful store operation.
type ITransactionLogger interface {
	// Append assigns the next sequence number and records the transaction.
	Append(txn Transaction)
	// Query returns the records matching the filter in log order. A
	// missing, empty or unparsable log yields an empty result, never an
	// error. A logger without a log file retains nothing and always
	// returns an empty result.
	Query(f Filter) []Record
	// Clear truncates the log to empty. The sequence counter is NOT
	// reset, so ids stay unique across the logger's whole lifetime.
	Clear() error
	// Info returns in-process counters for this logger instance.
	Info() Info
}
