//go:build windows

package store

import (
	"io/fs"
	"os"
	"syscall"
	"time"
)

func birthTime(_ *os.File, info fs.FileInfo) time.Time {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds())
}
