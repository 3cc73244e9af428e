package storage

import (
	"AdBoard/internal/api/config"
	"context"
	"fmt"
	"io"
	"time"
)

// BlobStore 对象存储，minio 与 s3 两种实现
type BlobStore interface {
	// Bucket 当前使用的桶
	Bucket() string
	// Put 直接写入对象
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete 删除对象，对象不存在时视为成功
	Delete(ctx context.Context, key string) error
	// PresignPut 生成限时上传 URL
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

const (
	DriverMinio = "minio"
	DriverS3    = "s3"
)

// New 按 blob.driver 构造对象存储
func New(ctx context.Context, cfg config.BlobConfig) (BlobStore, error) {
	switch cfg.Driver {
	case DriverMinio:
		s, err := NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverS3:
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}
