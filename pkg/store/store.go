// Package store implements the gateway's file operations on top of a single
// root directory.
//
// Every operation validates the client-supplied folder (and file) name,
// resolves it through pathguard, and only then touches the filesystem. All
// I/O goes through an os.Root opened on the root directory, so symlinks that
// point outside the root are never followed.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/pkg/pathguard"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
	"github.com/marmos91/filegate/pkg/upload"
)

// CacheControl is the cache directive attached to served files.
const CacheControl = "public, max-age=31536000"

// Operation names, used in errors, logs, spans and metric labels.
const (
	OpGetFile      = "GetFile"
	OpStatFile     = "StatFile"
	OpListFolder   = "ListFolder"
	OpStatFolder   = "StatFolder"
	OpPutFile      = "PutFile"
	OpDeleteFile   = "DeleteFile"
	OpDeleteFolder = "DeleteFolder"
)

const (
	stagingPrefix = ".filegate-"
	stagingSuffix = ".part"
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"modified_at"`
	CreatedAt time.Time `json:"created_at"`
}

// FolderInfo describes a folder. Size is the sum of its direct regular-file
// children; subfolders are not descended into.
type FolderInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Files   int       `json:"files"`
	ModTime time.Time `json:"modified_at"`
}

// Object is an open stored file. The caller must Close it.
type Object struct {
	Info         FileInfo
	CacheControl string
	body         *os.File
}

func (o *Object) Read(p []byte) (int, error) { return o.body.Read(p) }

// Close releases the underlying file.
func (o *Object) Close() error { return o.body.Close() }

// PutInput carries one upload.
type PutInput struct {
	Folder string

	// File is the client-declared target name. It is sanitized before use.
	File string

	// SourceName is the filename announced by the client for the payload
	// (the multipart part filename). Checked against the extension list
	// when non-empty.
	SourceName string

	// ContentType is the declared media type of the payload.
	ContentType string

	// Size is the declared payload length, or -1 when unknown.
	Size int64

	Body io.Reader
}

// Store performs file operations confined to one root directory.
// It is safe for concurrent use; the filesystem is the only shared state.
type Store struct {
	root     *os.Root
	resolver *pathguard.Resolver
	policy   *upload.Policy
	metrics  Metrics
	dirMode  os.FileMode
	fileMode os.FileMode
}

// Open prepares cfg.Root (creating it if needed) and returns a Store bound
// to it. A nil policy means upload.DefaultPolicy; a nil metrics disables
// collection.
func Open(cfg Config, policy *upload.Policy, metrics Metrics) (*Store, error) {
	cfg.ApplyDefaults()
	if cfg.Root == "" {
		return nil, errors.New("store: root directory is required")
	}

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("store: resolve root %q: %w", cfg.Root, err)
	}
	if err := os.MkdirAll(abs, cfg.DirMode); err != nil {
		return nil, fmt.Errorf("store: create root %q: %w", abs, err)
	}
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return nil, fmt.Errorf("store: evaluate root %q: %w", cfg.Root, err)
	}

	resolver, err := pathguard.New(abs)
	if err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("store: open root %q: %w", abs, err)
	}

	if policy == nil {
		policy = upload.DefaultPolicy()
	}

	logger.Debug("Store opened", logger.KeyRoot, abs)

	return &Store{
		root:     root,
		resolver: resolver,
		policy:   policy,
		metrics:  metrics,
		dirMode:  cfg.DirMode,
		fileMode: cfg.FileMode,
	}, nil
}

// Root returns the absolute, symlink-evaluated root directory.
func (s *Store) Root() string {
	return s.resolver.Root()
}

// Policy returns the upload policy in force.
func (s *Store) Policy() *upload.Policy {
	return s.policy
}

// Close releases the root handle.
func (s *Store) Close() error {
	return s.root.Close()
}

// Healthcheck verifies the root directory is still reachable.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := s.root.Stat(".")
	if err != nil {
		return fmt.Errorf("store: root unreachable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store: root %q is not a directory", s.Root())
	}
	return nil
}

// resolveFolder validates and resolves a folder name. The returned name is
// relative to the root in OS form, ready for os.Root.
func (s *Store) resolveFolder(op, folder string) (string, error) {
	if err := pathguard.ValidateFolder(folder); err != nil {
		return "", storeerrors.NewInvalidPathError(op, folder, err)
	}
	rp, err := s.resolver.Resolve(folder)
	if err != nil {
		return "", storeerrors.NewInvalidPathError(op, folder, err)
	}
	return filepath.FromSlash(rp.Rel), nil
}

// resolveFile validates and resolves a folder/file pair for reading.
func (s *Store) resolveFile(op, folder, file string) (string, error) {
	target := folder + "/" + file
	if err := pathguard.ValidateFolder(folder); err != nil {
		return "", storeerrors.NewInvalidPathError(op, target, err)
	}
	if err := pathguard.ValidateLeaf(file); err != nil {
		return "", storeerrors.NewInvalidPathError(op, target, err)
	}
	rp, err := s.resolver.Resolve(folder, file)
	if err != nil {
		return "", storeerrors.NewInvalidPathError(op, target, err)
	}
	return filepath.FromSlash(rp.Rel), nil
}

// stat follows symlinks inside the root. A link that dangles or points
// outside the root reports NotFound.
func (s *Store) stat(op, target, rel string) (fs.FileInfo, error) {
	info, err := s.root.Stat(rel)
	if err == nil {
		return info, nil
	}
	if isNotFound(err) {
		return nil, storeerrors.NewNotFoundError(op, target)
	}
	if li, lerr := s.root.Lstat(rel); lerr == nil && li.Mode()&fs.ModeSymlink != 0 {
		return nil, storeerrors.NewNotFoundError(op, target)
	}
	return nil, storeerrors.NewInternalError(op, target, err)
}

// classify maps a filesystem error to NotFound or Internal.
func classify(op, target string, err error) error {
	if isNotFound(err) {
		return storeerrors.NewNotFoundError(op, target)
	}
	return storeerrors.NewInternalError(op, target, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func isStaging(name string) bool {
	return strings.HasPrefix(name, stagingPrefix) && strings.HasSuffix(name, stagingSuffix)
}
