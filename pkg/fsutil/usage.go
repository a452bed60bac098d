package fsutil

import "golang.org/x/sys/unix"

// DiskUsage describes the filesystem hosting a path.
type DiskUsage struct {
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// Usage reports capacity and usage of the filesystem containing path.
func Usage(path string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskUsage{}, err
	}
	bsize := uint64(st.Bsize)
	total := bsize * uint64(st.Blocks)
	free := bsize * uint64(st.Bavail)
	return DiskUsage{
		TotalBytes: total,
		FreeBytes:  free,
		UsedBytes:  total - free,
	}, nil
}
