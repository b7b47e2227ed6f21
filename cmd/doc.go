// Package cmd implements the command-line interface for the kvstore
// key-value store. It is a thin adapter over the lib/store and lib/txlog
// packages: argument parsing, value interpretation and output formatting
// live here, while every invariant is enforced by the library.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (put, get, del, etc.)
//   - txn: Commands for inspecting the transaction log (show, stats, follow)
//   - shell: The interactive shell
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See kvstore -help for a list of all commands.
package cmd
