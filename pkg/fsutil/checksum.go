package fsutil

import (
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// checksumKey is the fixed HighwayHash key. Checksums are fingerprints for
// integrity comparison, not authentication, so a public constant key is fine.
var checksumKey = []byte("gg-flash-mgr/fsutil/checksum/v1!")

// Checksum returns the 64-bit HighwayHash of the file contents at path.
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h, err := highwayhash.New64(checksumKey)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
