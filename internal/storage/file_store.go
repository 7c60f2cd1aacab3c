package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore saves images to disk under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (f *FileStore) path(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return filepath.Join(f.basePath, name), nil
}

func (f *FileStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	target, err := f.path(name)
	if err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write file: %w", err)
	}
	return out.Close()
}

func (f *FileStore) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	target, err := f.path(name)
	if err != nil {
		return nil, 0, ErrImageNotFound
	}
	file, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, ErrImageNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, err
	}
	return file, info.Size(), nil
}

func (f *FileStore) Delete(_ context.Context, name string) error {
	target, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
