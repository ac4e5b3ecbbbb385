package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/internal/telemetry"
	"github.com/marmos91/filegate/pkg/bufpool"
	"github.com/marmos91/filegate/pkg/pathguard"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
	"github.com/marmos91/filegate/pkg/upload"
)

// GetFile opens folder/file for reading. A directory at that path is
// reported as NotFound.
func (s *Store) GetFile(ctx context.Context, folder, file string) (obj *Object, err error) {
	ctx, scope := s.begin(ctx, OpGetFile, folder, file)
	defer func() { scope.end(err) }()

	target := folder + "/" + file
	rel, err := s.resolveFile(OpGetFile, folder, file)
	if err != nil {
		return nil, err
	}

	f, info, err := s.openRegular(OpGetFile, target, rel)
	if err != nil {
		return nil, err
	}

	obj = &Object{
		Info:         fileInfo(f, info),
		CacheControl: CacheControl,
		body:         f,
	}
	scope.bytes(DirectionRead, info.Size())
	telemetry.SetAttributes(ctx, telemetry.Size(info.Size()))
	return obj, nil
}

// StatFile returns the attributes of folder/file without transferring data.
func (s *Store) StatFile(ctx context.Context, folder, file string) (info FileInfo, err error) {
	ctx, scope := s.begin(ctx, OpStatFile, folder, file)
	defer func() { scope.end(err) }()

	target := folder + "/" + file
	rel, err := s.resolveFile(OpStatFile, folder, file)
	if err != nil {
		return FileInfo{}, err
	}

	f, fi, err := s.openRegular(OpStatFile, target, rel)
	if err != nil {
		return FileInfo{}, err
	}
	defer func() { _ = f.Close() }()

	info = fileInfo(f, fi)
	telemetry.SetAttributes(ctx, telemetry.Size(info.Size))
	return info, nil
}

// PutFile stores in.Body as folder/file, creating the folder if needed and
// replacing any existing file of the same name.
//
// The type allow-lists are checked before any byte is read. The payload is
// streamed into a staging file next to the target and renamed into place
// only once it is complete, so a rejected or interrupted upload never leaves
// a partial file at the target path.
func (s *Store) PutFile(ctx context.Context, in PutInput) (info FileInfo, err error) {
	ctx, scope := s.begin(ctx, OpPutFile, in.Folder, in.File)
	defer func() { scope.end(err) }()

	name, err := pathguard.SanitizeAndValidateLeaf(in.File)
	target := in.Folder + "/" + name
	if err != nil {
		return FileInfo{}, storeerrors.NewInvalidPathError(OpPutFile, in.Folder+"/"+in.File, err)
	}
	if isStaging(name) {
		return FileInfo{}, storeerrors.NewInvalidPathError(OpPutFile, target, errors.New("reserved file name"))
	}
	folderRel, err := s.resolveFolder(OpPutFile, in.Folder)
	if err != nil {
		return FileInfo{}, err
	}
	rp, err := s.resolver.Resolve(in.Folder, name)
	if err != nil {
		return FileInfo{}, storeerrors.NewInvalidPathError(OpPutFile, target, err)
	}
	finalRel := filepath.FromSlash(rp.Rel)

	if err := s.policy.CheckType(name, in.ContentType); err != nil {
		return FileInfo{}, storeerrors.NewInvalidUploadError(OpPutFile, target, err.Error())
	}
	if in.SourceName != "" {
		if err := s.policy.CheckType(in.SourceName, in.ContentType); err != nil {
			return FileInfo{}, storeerrors.NewInvalidUploadError(OpPutFile, target, err.Error())
		}
	}
	if in.Size >= 0 {
		if err := s.policy.CheckSize(in.Size); err != nil {
			return FileInfo{}, storeerrors.NewInvalidUploadError(OpPutFile, target, err.Error())
		}
	}
	telemetry.SetAttributes(ctx, telemetry.ContentType(in.ContentType))

	body, err := s.policy.Sniff(in.Body)
	if err != nil {
		return FileInfo{}, uploadError(target, err)
	}

	if err := s.ensureFolder(folderRel, in.Folder); err != nil {
		return FileInfo{}, err
	}

	stagingRel := filepath.Join(folderRel, stagingPrefix+uuid.NewString()+stagingSuffix)
	f, err := s.root.OpenFile(stagingRel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.fileMode)
	if err != nil {
		return FileInfo{}, storeerrors.NewInternalError(OpPutFile, target, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = f.Close()
		if rmErr := s.root.Remove(stagingRel); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.WarnCtx(ctx, "Failed to remove staging file", logger.Path(stagingRel), logger.Err(rmErr))
		}
	}()

	n, err := bufpool.Copy(f, &contextReader{ctx: ctx, r: s.policy.Limit(body)})
	if err != nil {
		return FileInfo{}, uploadError(target, err)
	}
	if err := f.Sync(); err != nil {
		return FileInfo{}, storeerrors.NewInternalError(OpPutFile, target, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return FileInfo{}, storeerrors.NewInternalError(OpPutFile, target, err)
	}
	info = fileInfo(f, fi)
	info.Name = name

	if err := f.Close(); err != nil {
		return FileInfo{}, storeerrors.NewInternalError(OpPutFile, target, err)
	}
	if err := s.root.Rename(stagingRel, finalRel); err != nil {
		return FileInfo{}, storeerrors.NewInternalError(OpPutFile, target, err)
	}
	committed = true

	scope.bytes(DirectionWrite, n)
	telemetry.SetAttributes(ctx, telemetry.Size(n))
	logger.InfoCtx(ctx, "File stored", logger.Size(n), logger.ContentType(in.ContentType))
	return info, nil
}

// DeleteFile removes folder/file. Directories are reported as NotFound.
func (s *Store) DeleteFile(ctx context.Context, folder, file string) (err error) {
	ctx, scope := s.begin(ctx, OpDeleteFile, folder, file)
	defer func() { scope.end(err) }()

	target := folder + "/" + file
	rel, err := s.resolveFile(OpDeleteFile, folder, file)
	if err != nil {
		return err
	}

	// Lstat: a symlink is unlinked itself, never its target.
	info, err := s.root.Lstat(rel)
	if err != nil {
		return classify(OpDeleteFile, target, err)
	}
	if info.IsDir() {
		return storeerrors.NewNotFoundError(OpDeleteFile, target)
	}
	if err := s.root.Remove(rel); err != nil {
		return classify(OpDeleteFile, target, err)
	}

	logger.InfoCtx(ctx, "File deleted")
	return nil
}

// openRegular opens rel and checks it is a regular file.
func (s *Store) openRegular(op, target, rel string) (*os.File, fs.FileInfo, error) {
	info, err := s.stat(op, target, rel)
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil, storeerrors.NewNotFoundError(op, target)
	}

	f, err := s.root.Open(rel)
	if err != nil {
		return nil, nil, classify(op, target, err)
	}
	// Re-check on the open handle: the entry may have been swapped.
	info, err = f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, storeerrors.NewInternalError(op, target, err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, storeerrors.NewNotFoundError(op, target)
	}
	return f, info, nil
}

// ensureFolder creates the folder if absent. An existing non-directory
// entry with the folder's name is an invalid target.
func (s *Store) ensureFolder(rel, folder string) error {
	info, err := s.root.Lstat(rel)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return storeerrors.NewInvalidPathError(OpPutFile, folder, errors.New("folder name refers to a file"))
	case !errors.Is(err, fs.ErrNotExist):
		return storeerrors.NewInternalError(OpPutFile, folder, err)
	}

	if err := s.root.MkdirAll(rel, s.dirMode); err != nil {
		return storeerrors.NewInternalError(OpPutFile, folder, err)
	}
	return nil
}

func uploadError(target string, err error) error {
	switch {
	case errors.Is(err, upload.ErrTooLarge), errors.Is(err, upload.ErrInvalidType):
		return storeerrors.NewInvalidUploadError(OpPutFile, target, err.Error())
	default:
		return storeerrors.NewInternalError(OpPutFile, target, err)
	}
}

func fileInfo(f *os.File, info fs.FileInfo) FileInfo {
	return FileInfo{
		Name:      info.Name(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		CreatedAt: birthTime(f, info),
	}
}

// contextReader fails reads once ctx is done, aborting an in-flight copy
// when the client goes away.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
