// Package upload decides whether an incoming file may be stored: extension
// and declared content type must both be allow-listed, and the payload must
// not exceed the size ceiling.
package upload

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SniffLength is how many leading bytes are inspected when VerifyContent is on.
const SniffLength = 3072

// Rejection reasons. Their messages are returned to clients as-is.
var (
	ErrInvalidType = errors.New("invalid file type")
	ErrTooLarge    = errors.New("file too large")
)

// Policy is an immutable upload policy, safe for concurrent use.
type Policy struct {
	extensions    map[string]struct{}
	contentTypes  map[string]struct{}
	maxSize       int64
	verifyContent bool
}

// NewPolicy builds a Policy from cfg, applying defaults to zero fields.
func NewPolicy(cfg Config) *Policy {
	cfg.ApplyDefaults()

	p := &Policy{
		extensions:    make(map[string]struct{}, len(cfg.AllowedExtensions)),
		contentTypes:  make(map[string]struct{}, len(cfg.AllowedContentTypes)),
		maxSize:       cfg.MaxSize.Int64(),
		verifyContent: cfg.VerifyContent,
	}
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extensions[ext] = struct{}{}
	}
	for _, ct := range cfg.AllowedContentTypes {
		p.contentTypes[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	return p
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() *Policy {
	return NewPolicy(Config{})
}

// MaxSize returns the payload ceiling in bytes.
func (p *Policy) MaxSize() int64 {
	return p.maxSize
}

// Validate runs CheckType and CheckSize.
func (p *Policy) Validate(name, contentType string, size int64) error {
	if err := p.CheckType(name, contentType); err != nil {
		return err
	}
	return p.CheckSize(size)
}

// CheckType requires both the extension of name and the declared media type
// to be allow-listed. Media type parameters are ignored.
func (p *Policy) CheckType(name, contentType string) error {
	if _, ok := p.extensions[strings.ToLower(filepath.Ext(name))]; !ok {
		return ErrInvalidType
	}
	if !p.allowedMediaType(contentType) {
		return ErrInvalidType
	}
	return nil
}

// CheckSize rejects payloads larger than the ceiling.
func (p *Policy) CheckSize(size int64) error {
	if size > p.maxSize {
		return ErrTooLarge
	}
	return nil
}

func (p *Policy) allowedMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := p.contentTypes[strings.ToLower(mt)]
	return ok
}

// Limit wraps r so that reading past the ceiling fails with ErrTooLarge.
// Exactly MaxSize bytes are allowed through.
func (p *Policy) Limit(r io.Reader) io.Reader {
	return &limitedReader{r: r, remaining: p.maxSize}
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(b []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	// Allow one byte beyond the ceiling to detect overflow.
	if int64(len(b)) > l.remaining+1 {
		b = b[:l.remaining+1]
	}
	n, err := l.r.Read(b)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n + int(l.remaining), ErrTooLarge
	}
	return n, err
}

// Sniff checks the leading bytes of r against the content-type allow-list
// when content verification is enabled. It returns a reader that replays the
// inspected bytes followed by the rest of r.
func (p *Policy) Sniff(r io.Reader) (io.Reader, error) {
	if !p.verifyContent {
		return r, nil
	}

	head := make([]byte, SniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	allowed := false
	for ct := range p.contentTypes {
		if detected.Is(ct) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidType
	}
	return io.MultiReader(bytes.NewReader(head), r), nil
}
