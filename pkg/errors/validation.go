package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxSlugLength bounds slugs accepted from users.
const MaxSlugLength = 256

// ValidateSlug checks a slug before it is used as a seed and as a file or
// cache key component.
//
// Any non-empty printable string is a valid seed; the remaining rules keep
// slugs safe to embed in paths:
//   - no control characters
//   - no path separators or ".." sequences
//   - at most MaxSlugLength bytes
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}
	if len(slug) > MaxSlugLength {
		return New(ErrCodeInvalidSlug, "slug too long (max %d characters)", MaxSlugLength)
	}
	for _, r := range slug {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSlug, "slug contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(slug, pattern) {
			return New(ErrCodeInvalidSlug, "slug contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateOutputPath validates a file path given for writing output.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path %q is a directory", path)
	}
	return nil
}
