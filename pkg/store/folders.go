package store

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/internal/telemetry"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
)

// ListFolder returns the sorted names of the direct entries of folder,
// files and subfolders alike. A regular file at that path is NotFound.
func (s *Store) ListFolder(ctx context.Context, folder string) (names []string, err error) {
	ctx, scope := s.begin(ctx, OpListFolder, folder, "")
	defer func() { scope.end(err) }()

	entries, _, err := s.readFolder(OpListFolder, folder)
	if err != nil {
		return nil, err
	}

	names = make([]string, 0, len(entries))
	for _, e := range entries {
		if isStaging(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	telemetry.SetAttributes(ctx, telemetry.Count(len(names)))
	return names, nil
}

// StatFolder sums the sizes of the direct regular-file children of folder.
// Subfolders contribute nothing and are not descended into.
func (s *Store) StatFolder(ctx context.Context, folder string) (info FolderInfo, err error) {
	ctx, scope := s.begin(ctx, OpStatFolder, folder, "")
	defer func() { scope.end(err) }()

	entries, dirInfo, err := s.readFolder(OpStatFolder, folder)
	if err != nil {
		return FolderInfo{}, err
	}

	info = FolderInfo{Name: folder, ModTime: dirInfo.ModTime()}
	for _, e := range entries {
		if !e.Type().IsRegular() || isStaging(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// Removed since the directory was read.
			continue
		}
		if err != nil {
			return FolderInfo{}, storeerrors.NewInternalError(OpStatFolder, folder, err)
		}
		info.Size += fi.Size()
		info.Files++
	}

	telemetry.SetAttributes(ctx, telemetry.Size(info.Size), telemetry.Count(info.Files))
	return info, nil
}

// DeleteFolder recursively removes folder and everything under it.
// A regular file at that path is NotFound.
func (s *Store) DeleteFolder(ctx context.Context, folder string) (err error) {
	ctx, scope := s.begin(ctx, OpDeleteFolder, folder, "")
	defer func() { scope.end(err) }()

	rel, err := s.resolveFolder(OpDeleteFolder, folder)
	if err != nil {
		return err
	}

	info, err := s.root.Lstat(rel)
	if err != nil {
		return classify(OpDeleteFolder, folder, err)
	}
	if !info.IsDir() {
		return storeerrors.NewNotFoundError(OpDeleteFolder, folder)
	}
	if err := s.root.RemoveAll(rel); err != nil {
		return storeerrors.NewInternalError(OpDeleteFolder, folder, err)
	}

	logger.InfoCtx(ctx, "Folder deleted")
	return nil
}

func (s *Store) readFolder(op, folder string) ([]fs.DirEntry, fs.FileInfo, error) {
	rel, err := s.resolveFolder(op, folder)
	if err != nil {
		return nil, nil, err
	}

	info, err := s.stat(op, folder, rel)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, storeerrors.NewNotFoundError(op, folder)
	}

	dir, err := s.root.Open(rel)
	if err != nil {
		return nil, nil, classify(op, folder, err)
	}
	defer func() { _ = dir.Close() }()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, nil, storeerrors.NewInternalError(op, folder, err)
	}
	return entries, info, nil
}
