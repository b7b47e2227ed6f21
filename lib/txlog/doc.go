// Package txlog implements the append-only transaction log of the
// key-value store.
//
// Every store operation - including reads - is recorded as an immutable
// Record with a monotonically increasing, gapless sequence number assigned
// under the logger's own lock. The log therefore doubles as a read-audit
// trail, not just a write history.
//
// The package contains:
//   - ITransactionLogger: the append/query/clear contract
//   - Record: the wire representation of one transaction, with fields that
//     do not apply to an operation omitted from the serialized form
//   - A file-backed implementation storing the log as a single JSON array,
//     rewritten in full on each append
//
// Durability semantics are deliberately asymmetric to the store's: the
// store's snapshot write is synchronous and failures surface to the caller,
// while log appends are best-effort. An append that cannot reach disk is
// reported to the diagnostic sink and counted, but the originating store
// operation still succeeds. A corrupted log file is read as empty.
//
// The sequence counter is scoped to a logger instance. Clearing the log
// truncates the visible records without resetting the counter, so ids stay
// unique across the instance's whole lifetime.
package txlog
