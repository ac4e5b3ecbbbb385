//go:build !linux && !darwin && !windows

package store

import (
	"io/fs"
	"os"
	"time"
)

func birthTime(_ *os.File, info fs.FileInfo) time.Time {
	return info.ModTime()
}
