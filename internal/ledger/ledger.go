package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Magic validates that a ledger file is well-formed. A mismatch is treated as
// "no ledger yet", not an error.
const Magic uint32 = 0xFEEDC0DE

// Size is the fixed on-disk width of the ledger file.
const Size = 20

// Ledger tracks the aggregate counters for one log. It is the single source
// of truth for size accounting; the data file's byte length is never trusted
// except to detect corruption.
//
// Invariant: TotalEntries == ActiveEntries + DeletedFromStart.
type Ledger struct {
	// TotalEntries is the lifetime count of records ever appended.
	TotalEntries uint32
	// ActiveEntries is the count of records currently present in the data file.
	ActiveEntries uint32
	// NextID is the next record ID to assign.
	NextID uint32
	// DeletedFromStart is the lifetime count of records evicted.
	DeletedFromStart uint32
}

// Load reads the ledger from path. A missing file, a short file, or a magic
// mismatch all yield a zeroed ledger: "no ledger yet" is the expected
// first-boot case. Other I/O errors are surfaced.
func Load(path string) (Ledger, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Ledger{}, nil
		}
		return Ledger{}, fmt.Errorf("read ledger: %w", err)
	}
	if len(b) < Size || binary.LittleEndian.Uint32(b[16:20]) != Magic {
		return Ledger{}, nil
	}
	return Ledger{
		TotalEntries:     binary.LittleEndian.Uint32(b[0:4]),
		ActiveEntries:    binary.LittleEndian.Uint32(b[4:8]),
		NextID:           binary.LittleEndian.Uint32(b[8:12]),
		DeletedFromStart: binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}

// Save serializes the ledger and overwrites path in one write. The overwrite
// is not atomic; a crash mid-write is recovered on the next Load via the
// magic check, at the cost of losing the counters.
func (l Ledger) Save(path string) error {
	var buf [Size]byte
	binary.LittleEndian.PutUint32(buf[0:4], l.TotalEntries)
	binary.LittleEndian.PutUint32(buf[4:8], l.ActiveEntries)
	binary.LittleEndian.PutUint32(buf[8:12], l.NextID)
	binary.LittleEndian.PutUint32(buf[12:16], l.DeletedFromStart)
	binary.LittleEndian.PutUint32(buf[16:20], Magic)
	if err := os.WriteFile(path, buf[:], 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
