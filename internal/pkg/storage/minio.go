package storage

import (
	"AdBoard/internal/api/config"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

const orphanRuleID = "AdMediaOrphanExpiry"

// MinioStore 基于 minio-go 的对象存储
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore 初始化 MinIO 客户端，确认桶存在，并按需补全孤儿对象的过期策略
func NewMinioStore(ctx context.Context, cfg config.BlobConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("bucket %q does not exist and could not be created: %w", cfg.Bucket, err)
		}
		log.Info("created minio bucket", "bucket", cfg.Bucket)
	}

	s := &MinioStore{client: client, bucket: cfg.Bucket}
	if cfg.LifecycleDays > 0 {
		if err = s.EnsureLifecycle(ctx, "ads/", cfg.LifecycleDays); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MinioStore) Bucket() string {
	return s.bucket
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, ttl, nil, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}

// EnsureLifecycle 为 prefix 下的对象补全 N 天过期策略，作为清理任务之外的兜底
func (s *MinioStore) EnsureLifecycle(ctx context.Context, prefix string, days int) error {
	lcConfig, err := s.client.GetBucketLifecycle(ctx, s.bucket)
	if err != nil || lcConfig == nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	target := lifecycle.ExpirationDays(days)
	for _, rule := range lcConfig.Rules {
		if rule.Status == "Enabled" &&
			rule.Expiration.Days == target &&
			rule.RuleFilter.Prefix == prefix {
			log.Info("compatible lifecycle rule already present", "ruleID", rule.ID, "prefix", prefix)
			return nil
		}
	}

	rules := lcConfig.Rules[:0]
	for _, rule := range lcConfig.Rules {
		if rule.ID != orphanRuleID {
			rules = append(rules, rule)
		}
	}
	lcConfig.Rules = append(rules, lifecycle.Rule{
		ID:         orphanRuleID,
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: prefix},
		Expiration: lifecycle.Expiration{Days: target},
	})

	if err = s.client.SetBucketLifecycle(ctx, s.bucket, lcConfig); err != nil {
		return fmt.Errorf("failed to set bucket lifecycle: %w", err)
	}
	log.Info("lifecycle rule installed", "bucket", s.bucket, "prefix", prefix, "days", days)
	return nil
}
