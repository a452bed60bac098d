package fsutil

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Entry is one filesystem entry produced by Walk.
type Entry struct {
	// Path is the entry path relative to the process working directory (it
	// starts with the root passed to Walk).
	Path string
	// Info is nil when the walk reported an error for this path.
	Info fs.FileInfo
}

// Walk returns a lazy, restartable sequence of the entries under root,
// including root itself. Iteration can be abandoned at any point; re-ranging
// starts a fresh traversal. Errors are yielded alongside the offending path
// and do not stop the walk unless the consumer breaks.
func Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Entry{Path: path}, err) {
					return fs.SkipAll
				}
				return nil
			}
			info, ierr := d.Info()
			if !yield(Entry{Path: path, Info: info}, ierr) {
				return fs.SkipAll
			}
			return nil
		})
	}
}
