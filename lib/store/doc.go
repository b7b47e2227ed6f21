// Package store provides the high-level interface for key-value storage
// operations with durable persistence, read auditing and unified error
// handling. It defines the contract that storage backends implement and the
// typed error system shared by all of them.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations
//   - A structured error system using typed error codes so that callers can
//     distinguish contract violations (invalid key, invalid value, key not
//     found) from infrastructure failures (transaction errors)
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining the four primitive
//     operations (Put, Get, Delete, Clear) plus the read-only inspection
//     operations (Size, Exists, Keys, Values, Entries, Info). All
//     implementations share this interface, so callers - for example the
//     CLI in cmd/ - never depend on a concrete backend.
//
//   - Error System: Every failure is a *Error carrying an ErrCode. The
//     IsInvalidKey/IsInvalidValue/IsKeyNotFound/IsTransaction predicates let
//     callers branch on the error kind without inspecting messages.
//
// Implementations:
//
//	The package includes one implementation of the IStore interface:
//
//	- File Store (fstore): A thread-safe, single-process implementation
//	  holding all entries in memory behind a reader/writer lock, with an
//	  optional JSON snapshot file that is rewritten on every mutation and
//	  an optional transaction log fed through lib/txlog.
//	  Available in the "github.com/Ere11i/KV-Store-CLI-Utility/lib/store/fstore" package.
package store
