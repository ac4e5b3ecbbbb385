package pathguard

import (
	"fmt"
	"strings"
)

// ValidateFolder enforces the folder name policy: 1 to MaxSegmentLength
// bytes drawn from [a-zA-Z0-9._-], and not "." or "..". The same policy
// applies on every platform, so separators of any OS are rejected.
func ValidateFolder(name string) error {
	if err := checkLength(name); err != nil {
		return err
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved folder name %q", ErrInvalidPath, name)
	}
	for i := 0; i < len(name); i++ {
		if !allowedByte(name[i]) {
			return fmt.Errorf("%w: folder name contains %q", ErrInvalidPath, name[i])
		}
	}
	return nil
}

// ValidateLeaf checks a file name used for reads and deletes: it must be a
// single component without separators or NUL, and not "." or "..".
func ValidateLeaf(name string) error {
	if err := checkLength(name); err != nil {
		return err
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved file name %q", ErrInvalidPath, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: file name is not a single component", ErrInvalidPath)
	}
	return nil
}

// SanitizeLeaf replaces every rune outside [a-zA-Z0-9._-] with '_'. Each
// multi-byte rune becomes a single underscore.
func SanitizeLeaf(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x80 && allowedByte(byte(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SanitizeAndValidateLeaf sanitizes name for writing and checks the result.
// "." and ".." survive sanitization unchanged and are rejected here.
func SanitizeAndValidateLeaf(name string) (string, error) {
	clean := SanitizeLeaf(name)
	if err := ValidateLeaf(clean); err != nil {
		return "", err
	}
	return clean, nil
}

func checkLength(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPath)
	}
	if len(name) > MaxSegmentLength {
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidPath, MaxSegmentLength)
	}
	return nil
}

func allowedByte(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '.' || c == '-' || c == '_'
}
