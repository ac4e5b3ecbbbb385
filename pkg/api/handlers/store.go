package handlers

import (
	"context"

	"github.com/marmos91/filegate/pkg/store"
	"github.com/marmos91/filegate/pkg/upload"
)

// Store is the subset of *store.Store the handlers depend on.
type Store interface {
	GetFile(ctx context.Context, folder, file string) (*store.Object, error)
	StatFile(ctx context.Context, folder, file string) (store.FileInfo, error)
	PutFile(ctx context.Context, in store.PutInput) (store.FileInfo, error)
	DeleteFile(ctx context.Context, folder, file string) error
	ListFolder(ctx context.Context, folder string) ([]string, error)
	StatFolder(ctx context.Context, folder string) (store.FolderInfo, error)
	DeleteFolder(ctx context.Context, folder string) error
	Policy() *upload.Policy
}

var _ Store = (*store.Store)(nil)
