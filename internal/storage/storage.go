// Package storage retrieves raw email messages from object storage.
package storage

import (
	"context"
	"fmt"
)

// Store defines keyed blob retrieval.
type Store interface {
	// Get returns the object stored under bucket/key
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// FetchError reports a failed blob retrieval.
type FetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
