package commands

import (
	"fmt"
	"strconv"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/pkg/apiclient"
)

// fileListing renders a folder listing.
type fileListing struct {
	*apiclient.FileList
}

func (l fileListing) Headers() []string { return []string{"Name"} }

func (l fileListing) Rows() [][]string {
	rows := make([][]string, 0, len(l.Files))
	for _, name := range l.Files {
		rows = append(rows, []string{name})
	}
	return rows
}

func fileStatPairs(s *apiclient.FileStat) [][2]string {
	return [][2]string{
		{"Folder", s.Folder},
		{"Name", s.Name},
		{"Size", fmt.Sprintf("%s (%s bytes)", cmdutil.FormatSize(s.Size), strconv.FormatInt(s.Size, 10))},
		{"Modified", cmdutil.FormatTime(s.ModTime)},
		{"Created", cmdutil.FormatTime(s.CreatedAt)},
		{"Cache-Control", s.CacheControl},
	}
}

func folderStatPairs(s *apiclient.FolderStat) [][2]string {
	return [][2]string{
		{"Folder", s.Name},
		{"Size", fmt.Sprintf("%s (%s bytes)", cmdutil.FormatSize(s.Size), strconv.FormatInt(s.Size, 10))},
		{"Modified", cmdutil.FormatTime(s.ModTime)},
	}
}
