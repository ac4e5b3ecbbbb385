//go:build darwin

package store

import (
	"io/fs"
	"os"
	"syscall"
	"time"
)

func birthTime(_ *os.File, info fs.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
