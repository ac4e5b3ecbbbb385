//go:build linux

package store

import (
	"io/fs"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime asks statx for the creation time of the open file. Filesystems
// that do not record it fall back to the modification time.
func birthTime(f *os.File, info fs.FileInfo) time.Time {
	conn, err := f.SyscallConn()
	if err != nil {
		return info.ModTime()
	}

	var stx unix.Statx_t
	var statErr error
	ctrlErr := conn.Control(func(fd uintptr) {
		statErr = unix.Statx(int(fd), "", unix.AT_EMPTY_PATH, unix.STATX_BTIME, &stx)
	})
	if ctrlErr != nil || statErr != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
