package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/record"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

// Store owns the append-only data file. It opens its file handle per call and
// never holds one across calls, so no operation is partially resumable.
//
// Store trusts the caller (the engine) for record counts; it does not consult
// the ledger itself.
type Store struct {
	path      string
	chunkSize int
	logger    logpkg.Logger
}

// New creates a Store for the data file at path. chunkSize bounds the working
// buffer used during compaction.
func New(path string, chunkSize int, logger logpkg.Logger) *Store {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Store{path: path, chunkSize: chunkSize, logger: logger}
}

// Path returns the data file path.
func (s *Store) Path() string { return s.path }

// Append writes exactly one encoded record at the end of the data file,
// creating it if needed. A short write is reported as an error; no partial
// record is ever intentionally left behind.
func (s *Store) Append(rec record.Record) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	n, err := f.Write(record.Encode(rec))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if n != record.Size {
		return fmt.Errorf("append record: %w", io.ErrShortWrite)
	}
	return nil
}

// ReadChunk decodes up to min(limit, active) whole records from the start of
// the data file, oldest first. A short read (end of file or a truncated tail)
// stops the scan early and returns the records decoded so far without error.
func (s *Store) ReadChunk(limit, active uint32) ([]record.Record, error) {
	if active == 0 || limit == 0 {
		return nil, nil
	}
	want := limit
	if active < want {
		want = active
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	out := make([]record.Record, 0, want)
	r := bufio.NewReaderSize(f, s.chunkSize)
	var buf [record.Size]byte
	for uint32(len(out)) < want {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return out, fmt.Errorf("read record: %w", err)
		}
		rec, _ := record.Decode(buf[:])
		out = append(out, rec)
	}
	return out, nil
}

// Evict removes the oldest count records out of active. count must already be
// clamped to active by the caller; count == 0 is a no-op.
//
// When count == active the data file is deleted outright. Otherwise the
// surviving tail is stream-copied into a temporary file through the bounded
// chunk buffer and renamed into place. A failed copy discards the temporary
// file and leaves the original untouched.
func (s *Store) Evict(count, active uint32) error {
	if count == 0 {
		return nil
	}
	if count == active {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove data file: %w", err)
		}
		return nil
	}
	return s.compact(count, active-count)
}

// compact copies the records after the evicted prefix into <path>.tmp and
// swaps it in. Cost is O(remaining bytes), the price of the zero-index
// append-only layout.
func (s *Store) compact(evict, remaining uint32) error {
	skip := int64(evict) * record.Size
	left := int64(remaining) * record.Size

	src, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer src.Close()

	if _, err := src.Seek(skip, io.SeekStart); err != nil {
		return fmt.Errorf("seek past evicted records: %w", err)
	}

	tmpPath := s.path + ".tmp"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	s.logger.Debug("compacting data file",
		logpkg.Uint32("evict", evict),
		logpkg.Uint32("remaining", remaining),
		logpkg.Int("chunk_size", s.chunkSize),
	)

	buf := make([]byte, s.chunkSize)
	var copyErr error
	for left > 0 {
		n := int64(len(buf))
		if left < n {
			n = left
		}
		if _, err := io.ReadFull(src, buf[:n]); err != nil {
			copyErr = fmt.Errorf("read tail: %w", err)
			break
		}
		if _, err := dst.Write(buf[:n]); err != nil {
			copyErr = fmt.Errorf("write tail: %w", err)
			break
		}
		left -= n
	}
	if err := dst.Close(); copyErr == nil && err != nil {
		copyErr = fmt.Errorf("close temp file: %w", err)
	}
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return copyErr
	}

	if err := os.Remove(s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("remove data file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Remove deletes the data file if present.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove data file: %w", err)
	}
	return nil
}

// SizeOnDisk returns the current byte length of the data file, or 0 when it
// does not exist. Used only for corruption detection, never for accounting.
func (s *Store) SizeOnDisk() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}
