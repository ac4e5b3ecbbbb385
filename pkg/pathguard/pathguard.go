// Package pathguard turns client-supplied folder and file names into
// absolute paths that are proven to lie inside a fixed root directory.
//
// Resolution is purely lexical and never touches the filesystem. Symlink
// confinement is the job of the caller, which performs all I/O through an
// os.Root opened on the same directory.
package pathguard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxSegmentLength is the longest folder or file name accepted, in bytes.
const MaxSegmentLength = 255

// ErrInvalidPath is returned for any name that fails validation or whose
// resolved path is not contained in the root.
var ErrInvalidPath = errors.New("invalid path")

// ResolvedPath is a contained location under the root.
type ResolvedPath struct {
	// Abs is the cleaned absolute path.
	Abs string

	// Rel is Abs relative to the root, slash separated. "." for the root itself.
	Rel string
}

// Resolver resolves names against one root directory. It is immutable and
// safe for concurrent use.
type Resolver struct {
	root string
}

// New returns a Resolver for root. root must be absolute; it is cleaned but
// not symlink-evaluated here.
func New(root string) (*Resolver, error) {
	if root == "" || !filepath.IsAbs(root) {
		return nil, fmt.Errorf("pathguard: root must be an absolute path, got %q", root)
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the cleaned root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins segments onto the root and proves the result is contained.
// Empty segments, absolute segments, NUL bytes and ".." components are all
// rejected before the containment check runs.
func (r *Resolver) Resolve(segments ...string) (ResolvedPath, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, r.root)

	for _, seg := range segments {
		if err := checkSegment(seg); err != nil {
			return ResolvedPath{}, err
		}
		parts = append(parts, seg)
	}

	candidate := filepath.Clean(filepath.Join(parts...))
	rel, ok := relWithin(r.root, candidate)
	if !ok {
		return ResolvedPath{}, fmt.Errorf("%w: escapes root", ErrInvalidPath)
	}
	return ResolvedPath{Abs: candidate, Rel: filepath.ToSlash(rel)}, nil
}

// Contains reports whether candidate is the root or lies beneath it.
func (r *Resolver) Contains(candidate string) bool {
	_, ok := relWithin(r.root, candidate)
	return ok
}

// Within reports whether candidate equals root or has root as a proper
// ancestor, comparing by path components rather than string prefix.
func Within(root, candidate string) bool {
	_, ok := relWithin(filepath.Clean(root), candidate)
	return ok
}

func relWithin(root, candidate string) (string, bool) {
	if !filepath.IsAbs(candidate) {
		return "", false
	}
	rel, err := filepath.Rel(root, filepath.Clean(candidate))
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func checkSegment(seg string) error {
	switch {
	case seg == "":
		return fmt.Errorf("%w: empty segment", ErrInvalidPath)
	case strings.IndexByte(seg, 0) >= 0:
		return fmt.Errorf("%w: NUL byte", ErrInvalidPath)
	case filepath.IsAbs(seg), filepath.VolumeName(seg) != "", seg[0] == '/', seg[0] == '\\':
		return fmt.Errorf("%w: absolute segment %q", ErrInvalidPath, seg)
	}
	for _, comp := range strings.FieldsFunc(seg, isSeparator) {
		if comp == ".." {
			return fmt.Errorf("%w: parent reference in %q", ErrInvalidPath, seg)
		}
	}
	return nil
}

func isSeparator(c rune) bool {
	return c == '/' || c == '\\'
}
