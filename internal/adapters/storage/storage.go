// Package storage reads and writes schema and config files through an
// afero filesystem, so the same code runs against disk or memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when a path does not exist.
var ErrNotFound = errors.New("file not found")

// Storage is the file access boundary used by the schema loader and the CLI.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content []byte) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the sorted names of the entries in dir.
	List(ctx context.Context, dir string) ([]string, error)
	MkdirAll(ctx context.Context, path string) error
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
	WriteStream(ctx context.Context, path string, reader io.Reader) error
}

// FS implements Storage on an afero.Fs. Relative paths resolve against the
// base path.
type FS struct {
	fs       afero.Fs
	basePath string
}

// NewFS wraps an existing afero filesystem.
func NewFS(fs afero.Fs, basePath string) *FS {
	return &FS{fs: fs, basePath: basePath}
}

// NewFilesystemStorage returns storage backed by the OS filesystem.
func NewFilesystemStorage(basePath string) *FS {
	return NewFS(afero.NewOsFs(), basePath)
}

// NewMemoryStorage returns storage backed by an in-memory filesystem.
func NewMemoryStorage() *FS {
	return NewFS(afero.NewMemMapFs(), "/")
}

// Afero exposes the underlying filesystem.
func (s *FS) Afero() afero.Fs { return s.fs }

// Resolve returns the path the storage uses for path.
func (s *FS) Resolve(path string) string {
	if filepath.IsAbs(path) || s.basePath == "" {
		return path
	}
	return filepath.Join(s.basePath, path)
}

func notFound(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return err
}

// Read reads contents from a path.
func (s *FS) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := afero.ReadFile(s.fs, s.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", notFound(path, err))
	}
	return content, nil
}

// Write writes contents to a path, creating parent directories.
func (s *FS) Write(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := s.Resolve(path)
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes a file. Deleting a missing file is not an error.
func (s *FS) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(s.Resolve(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a path exists.
func (s *FS) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(s.fs, s.Resolve(path))
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return ok, nil
}

// List lists the entries of dir. A missing directory lists as empty.
func (s *FS) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, s.Resolve(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// MkdirAll creates a directory and all parent directories.
func (s *FS) MkdirAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.Resolve(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// ReadStream opens a path for reading. The caller closes the reader.
func (s *FS) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(s.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", notFound(path, err))
	}
	return f, nil
}

// WriteStream copies reader into path.
func (s *FS) WriteStream(ctx context.Context, path string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := s.Resolve(path)
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := s.fs.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write stream: %w", err)
	}
	return nil
}

var _ Storage = (*FS)(nil)
