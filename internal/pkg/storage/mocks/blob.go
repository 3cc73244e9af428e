package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

// BlobStore is a mock implementation of storage.BlobStore
type BlobStore struct {
	mock.Mock
}

// Bucket returns the configured bucket name
func (m *BlobStore) Bucket() string {
	args := m.Called()
	return args.String(0)
}

// Put stores an object
func (m *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

// Delete removes an object
func (m *BlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// PresignPut returns a time-limited upload URL
func (m *BlobStore) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}
