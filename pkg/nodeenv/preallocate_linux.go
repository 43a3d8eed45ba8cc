//go:build linux

package nodeenv

import (
	"os"

	"emperror.dev/errors"
	"golang.org/x/sys/unix"
)

// preallocate reserves size bytes of disk for f. Filesystems without
// fallocate support get a sparse file of the same size.
func preallocate(f *os.File, size int64) error {
	if size > 0 {
		err := unix.Fallocate(int(f.Fd()), 0, 0, size)
		if err != nil && !errors.Is(err, unix.EOPNOTSUPP) && !errors.Is(err, unix.ENOSYS) {
			return err
		}
	}
	return f.Truncate(size)
}
