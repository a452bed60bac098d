// Package fsutil is a stateless convenience layer over the OS file API:
// directory creation, file read/write/copy/move, content checksums, a lazy
// directory walker, and filesystem usage queries. It carries no engine-level
// invariants.
package fsutil
