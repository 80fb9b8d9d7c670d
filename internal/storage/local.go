package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements the Source interface using local disk.
// It also owns the cache directory that S3Storage downloads into, and
// does not resolve s3:// locations itself.
type LocalStorage struct {
	cacheDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// The cacheDir parameter specifies where downloaded containers are kept.
// If cacheDir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(cacheDir string) (*LocalStorage, error) {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "asciiplay")
	}

	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &LocalStorage{cacheDir: cacheDir}, nil
}

// CacheDir returns the cache directory path.
func (s *LocalStorage) CacheDir() string {
	return s.cacheDir
}

// Open opens a local container file.
func (s *LocalStorage) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if IsS3(location) {
		return nil, ErrS3NotConfigured
	}

	f, err := os.Open(location) // #nosec G304 - path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	return f, nil
}

// cachePath returns the cache file path for name, which must stay
// inside the cache directory.
func (s *LocalStorage) cachePath(name string) (string, error) {
	path := filepath.Join(s.cacheDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(s.cacheDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q escapes the cache directory", ErrInvalidLocation, name)
	}
	return path, nil
}

// SaveCache writes data to the cache entry called name and returns its path.
// The entry is written to a temporary file first and renamed into place,
// so a partially downloaded container is never visible under name.
func (s *LocalStorage) SaveCache(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path, err := s.cachePath(name)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+"_*")
	if err != nil {
		return "", fmt.Errorf("create cache file: %w", err)
	}

	tmpName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write cache file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("move cache file: %w", err)
	}

	return path, nil
}

// LoadCache opens the cache entry called name. It returns an error
// satisfying errors.Is(err, fs.ErrNotExist) when there is no such entry.
func (s *LocalStorage) LoadCache(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path, err := s.cachePath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 - path is confined to the cache directory
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	return f, nil
}
