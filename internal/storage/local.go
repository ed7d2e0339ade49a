package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements Store on the local filesystem; each bucket is a subdirectory.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new LocalStore instance
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (l *LocalStore) path(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", errors.New("bucket and key are required")
	}
	full := filepath.Join(l.basePath, bucket, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes the storage directory", key)
	}
	return full, nil
}

// Save writes data under bucket/key
func (l *LocalStore) Save(bucket, key string, data []byte) error {
	full, err := l.path(bucket, key)
	if err != nil {
		return &FetchError{Bucket: bucket, Key: key, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating bucket directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// Get retrieves a file from local storage
func (l *LocalStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	full, err := l.path(bucket, key)
	if err != nil {
		return nil, &FetchError{Bucket: bucket, Key: key, Err: err}
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &FetchError{Bucket: bucket, Key: key, Err: fmt.Errorf("reading file: %w", err)}
	}
	return data, nil
}

// Delete removes a file from local storage
func (l *LocalStore) Delete(bucket, key string) error {
	full, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
