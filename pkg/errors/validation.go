package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nameRegex matches valid pass and resource names in manifests.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName validates a pass or resource name from a manifest.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
//   - Alphanumeric plus dot, underscore, hyphen
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid name: %q", name)
	}

	return nil
}

// ValidatePath validates a manifest or output file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// validFormats are the artifact formats the renderer supports.
var validFormats = map[string]bool{
	"dot":  true,
	"svg":  true,
	"png":  true,
	"json": true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q (supported: dot, svg, png, json)", format)
	}
	return nil
}
