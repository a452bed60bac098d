// Package logstore implements the append-only record file: sequential
// append, sequential chunked read from the oldest record, and
// eviction-by-compaction with a bounded working buffer.
//
// The file is a flat concatenation of fixed-width records, oldest first, with
// no header or index. Compaction rewrites the surviving tail into a temporary
// file and renames it into place, so a failed compaction leaves the original
// file untouched.
package logstore
