package apiclient

import (
	"context"
	"strconv"
	"time"
)

// FileList is a folder listing.
type FileList struct {
	Folder string   `json:"folder" yaml:"folder"`
	Files  []string `json:"files" yaml:"files"`
}

// FolderStat is the metadata the server reports for a folder. Size sums
// the folder's direct files.
type FolderStat struct {
	Name    string    `json:"name" yaml:"name"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modified_at" yaml:"modified_at"`
}

// ListFolder returns the names of the files in a folder.
func (c *Client) ListFolder(ctx context.Context, folder string) (*FileList, error) {
	list, err := getResource[FileList](ctx, c, folder)
	if err != nil {
		return nil, err
	}
	list.Folder = folder
	if list.Files == nil {
		list.Files = []string{}
	}
	return list, nil
}

// StatFolder returns a folder's aggregate size and modification time.
func (c *Client) StatFolder(ctx context.Context, folder string) (*FolderStat, error) {
	h, err := headResource(ctx, c, folder)
	if err != nil {
		return nil, err
	}
	size, _ := strconv.ParseInt(h.Get("Content-Length"), 10, 64)
	return &FolderStat{
		Name:    folder,
		Size:    size,
		ModTime: parseHTTPTime(h.Get("Last-Modified")),
	}, nil
}

// DeleteFolder removes a folder and everything in it.
func (c *Client) DeleteFolder(ctx context.Context, folder string) (*Message, error) {
	return deleteResource(ctx, c, folder)
}
