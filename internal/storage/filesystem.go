package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// filesystem implements System using the local filesystem.
// Keys map directly to file names inside the base path.
type filesystem struct {
	basePath string
	logger   *slog.Logger
}

// New creates a filesystem storage system rooted at root.
// The root is resolved to an absolute path during construction;
// nothing is read or created until an operation needs it.
func New(root string, logger *slog.Logger) (System, error) {
	if root == "" {
		return nil, fmt.Errorf("root required")
	}

	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		logger:   logger.With("system", "storage", "root", absPath),
	}, nil
}

// ValidatePattern checks that pattern is a well-formed glob over file names.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if strings.ContainsRune(pattern, '/') || strings.ContainsRune(pattern, filepath.Separator) {
		return fmt.Errorf("%w: %q must not contain a path separator", ErrInvalidPattern, pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	return nil
}

func (f *filesystem) Root() string {
	return f.basePath
}

func (f *filesystem) Exists() (bool, error) {
	info, err := os.Stat(f.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return false, ErrPermissionDenied
		}
		return false, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("root %s is not a directory", f.basePath)
	}
	return true, nil
}

func (f *filesystem) EnsureRoot() (bool, error) {
	exists, err := f.Exists()
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return false, fmt.Errorf("create directory: %w", err)
	}

	f.logger.Debug("root directory created")
	return true, nil
}

func (f *filesystem) Glob(pattern string) ([]string, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		ok, _ := filepath.Match(pattern, entry.Name())
		if ok && f.isFile(entry) {
			names = append(names, entry.Name())
		}
	}

	slices.Sort(names)

	f.logger.Debug("glob complete", "pattern", pattern, "entries", len(entries), "matched", len(names))
	return names, nil
}

// isFile reports whether entry is a regular file or a symlink that resolves
// to one. Dangling links and links to directories are excluded.
func (f *filesystem) isFile(entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(f.basePath, entry.Name()))
	if err != nil {
		f.logger.Debug("skipping unresolved link", "name", entry.Name(), "error", err)
		return false
	}
	return info.Mode().IsRegular()
}

func (f *filesystem) Path(key string) (string, error) {
	return f.fullPath(key)
}

func (f *filesystem) Size(ctx context.Context, key string) (int64, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return 0, ErrPermissionDenied
		}
		return 0, fmt.Errorf("stat file: %w", err)
	}

	return info.Size(), nil
}

func (f *filesystem) Validate(ctx context.Context, key string) (bool, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return false, ErrPermissionDenied
		}
		return false, fmt.Errorf("stat file: %w", err)
	}

	return true, nil
}

func (f *filesystem) Store(ctx context.Context, key string, write WriteFunc) (int64, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(f.basePath, "."+key+".*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return 0, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		f.logger.Warn("failed to set file mode", "key", key, "error", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		if errors.Is(err, fs.ErrPermission) {
			return 0, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	return cw.n, nil
}

func (f *filesystem) fullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(key)
	if cleaned != filepath.Base(cleaned) || cleaned == ".." || cleaned == "." {
		return "", ErrInvalidKey
	}

	return filepath.Join(f.basePath, cleaned), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
