package storage

import (
	"context"
	"io"
)

// WriteFunc streams the contents of an entry being stored.
type WriteFunc func(w io.Writer) error

// System defines the filesystem operations a batch run depends on.
// Keys are plain file names relative to the root; nested paths are rejected.
type System interface {
	// Root returns the absolute root directory.
	Root() string

	// Exists reports whether the root directory exists.
	Exists() (bool, error)

	// EnsureRoot creates the root directory and any missing parents.
	// It reports whether the directory had to be created.
	EnsureRoot() (bool, error)

	// Glob returns the names of regular files, or links to them, in the root matching pattern,
	// sorted by name. Returns ErrNotFound if the root does not exist.
	Glob(pattern string) ([]string, error)

	// Path returns the absolute path of key.
	Path(key string) (string, error)

	// Size returns the size in bytes of the entry at key.
	Size(ctx context.Context, key string) (int64, error)

	// Validate checks if a key exists.
	// Returns (true, nil) if the key exists, (false, nil) if it does not.
	Validate(ctx context.Context, key string) (bool, error)

	// Store writes the entry at key through write. The entry is replaced
	// atomically: readers see either the previous contents or the complete
	// new contents. It returns the number of bytes written.
	Store(ctx context.Context, key string, write WriteFunc) (int64, error)
}
