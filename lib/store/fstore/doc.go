// Package fstore implements a thread-safe, optionally file-backed
// key-value store based on the store.IStore interface. All entries live in
// an in-memory map guarded by a single reader/writer lock; an optional JSON
// data file holds a full snapshot that is rewritten synchronously on every
// mutation.
//
// Key Features:
//   - Reader/writer locking: many concurrent readers, exclusive writers
//   - Crash-consistent snapshots: the data file is always a complete,
//     valid JSON object because it is rewritten with one write call while
//     the write lock is held
//   - Read auditing: every successful Get is appended to the transaction
//     log alongside the mutating operations
//   - Typed validation errors before any lock is taken
//
// Implementation Details:
//
//   - Durability Protocol: a mutating call updates the map, serializes the
//     entire map to the data file and appends the log record, all before
//     releasing the write lock. If the snapshot write fails, the in-memory
//     mutation is kept (the store fails dirty rather than reverting) and a
//     transaction error is returned so the caller can decide to retry.
//
//   - Write latency therefore scales with the total data-set size, not
//     with the size of the changed entry. That trade-off buys a snapshot
//     that is self-consistent at every moment in time.
//
//   - Load Protocol: construction parses an existing data file in full; a
//     malformed file fails construction instead of silently starting empty.
//
// Thread Safety:
//
//	All operations are safe for concurrent use by multiple goroutines.
//	Log appends performed under the read lock serialize only on the
//	logger's own lock, so an audit write never blocks unrelated readers.
package fstore
