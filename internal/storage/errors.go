// Package storage provides the filesystem collaborator for batch runs.
// A System is rooted at one directory: it enumerates entries by glob pattern,
// creates its root on demand, and writes entries atomically through a
// temporary file and rename.
package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key or root directory does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is malformed or contains invalid characters.
	// This includes empty keys, nested paths, and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrInvalidPattern indicates a malformed glob pattern.
	ErrInvalidPattern = errors.New("storage: invalid pattern")
)
