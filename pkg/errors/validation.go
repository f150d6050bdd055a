package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates an export output path for safety.
// It rejects empty paths, control characters, and unreasonable lengths so
// that exporter errors surface before any file is created.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateJobName validates a job name used in cache keys and run metadata.
// Names must be simple identifiers without path separators.
func ValidateJobName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidJob, "job name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidJob, "job name too long (max 128 characters)")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidJob, "job name cannot contain path separators")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidJob, "job name contains invalid control characters")
		}
	}

	return nil
}
