// Package filter provides CEL expression filtering over records for the read
// paths (CLI and HTTP). The engine core never sees filters.
package filter
