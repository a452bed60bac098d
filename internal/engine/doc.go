// Package engine composes the record codec, the metadata ledger, the log
// store, and the eviction policy behind an init/append/read/evict/status
// facade.
//
// # Lifecycle
//
// An Engine is created with New (which validates the configuration), opened
// with Open, and torn down with Close, which flushes the ledger. Open and
// Close are idempotent. Every other operation fails with ErrInvalidState
// while the engine is closed.
//
// # Crash consistency
//
// The data file and the ledger are updated separately, with no transaction
// spanning them. A crash between the two updates leaves the ledger behind the
// file; the ledger remains the source of truth and the divergence is logged
// at the next Open. This mirrors the original design rather than inventing a
// stronger guarantee.
package engine
