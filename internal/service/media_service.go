package service

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/pkg/cdn"
	"AdBoard/internal/pkg/consts"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/pkg/storage"
	"AdBoard/internal/pkg/util"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaService interface {
	IssueUploadURL(ctx context.Context, req *dto.UploadURLDTO) (*dto.UploadURLResultDTO, error)
	DirectUpload(ctx context.Context, req *dto.DirectUploadDTO) (*dto.DirectUploadResultDTO, error)
}

type MediaOptions struct {
	KeyPrefix string
	URLTTL    time.Duration
	MaxBytes  int64
	Now       func() time.Time
}

type mediaServiceImpl struct {
	blob       storage.BlobStore
	normalizer *cdn.Normalizer
	metrics    *metrics.Metrics
	opts       MediaOptions
}

func NewMediaService(blob storage.BlobStore, normalizer *cdn.Normalizer, m *metrics.Metrics, opts MediaOptions) MediaService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "ads"
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = time.Hour
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	return &mediaServiceImpl{blob: blob, normalizer: normalizer, metrics: m, opts: opts}
}

// IssueUploadURL 生成限时上传地址与上传完成后的 CDN 地址
func (s *mediaServiceImpl) IssueUploadURL(ctx context.Context, req *dto.UploadURLDTO) (*dto.UploadURLResultDTO, error) {
	filename := strings.TrimSpace(req.FileName)
	if filename == "" {
		return nil, validationError("filename is required")
	}
	contentType, err := resolveMediaType(filename, req.ContentType)
	if err != nil {
		return nil, err
	}

	key := s.newKey(filename)
	uploadURL, err := s.blob.PresignPut(ctx, key, contentType, s.opts.URLTTL)
	if err != nil {
		return nil, storageError("presign upload", err)
	}

	s.metrics.UploadsIssued.WithLabelValues("presign").Inc()
	log.InfoContext(ctx, "upload url issued", "filename", filename, "key", key)
	return &dto.UploadURLResultDTO{
		Base:          dto.OK("Pre-signed URL generated successfully"),
		UploadURL:     uploadURL,
		CloudFrontURL: s.normalizer.URLForKey(key),
		S3Key:         key,
		ContentType:   contentType,
		ExpiresIn:     int(s.opts.URLTTL / time.Second),
	}, nil
}

// DirectUpload 原样写入对象存储，不做压缩或转码
func (s *mediaServiceImpl) DirectUpload(ctx context.Context, req *dto.DirectUploadDTO) (*dto.DirectUploadResultDTO, error) {
	filename := strings.TrimSpace(req.FileName)
	if filename == "" {
		return nil, validationError("filename is required")
	}
	if strings.TrimSpace(req.ImageData) == "" {
		return nil, validationError("imageData is required")
	}

	data, err := decodeBase64Payload(req.ImageData)
	if err != nil {
		return nil, fmt.Errorf("%w: imageData is not valid base64", ErrMalformedInput)
	}
	if len(data) == 0 {
		return nil, validationError("imageData is empty")
	}
	if int64(len(data)) > s.opts.MaxBytes {
		return nil, validationError("file size exceeds maximum of %d bytes", s.opts.MaxBytes)
	}

	contentType, err := resolveMediaType(filename, req.ContentType)
	if err != nil {
		return nil, err
	}

	key := s.newKey(filename)
	if err = s.blob.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, storageError("upload media", err)
	}

	s.metrics.UploadsIssued.WithLabelValues("direct").Inc()
	log.InfoContext(ctx, "media uploaded", "filename", filename, "key", key, "size", len(data))
	return &dto.DirectUploadResultDTO{
		Base:          dto.OK("Image uploaded successfully"),
		CloudFrontURL: s.normalizer.URLForKey(key),
		S3Key:         key,
		Size:          len(data),
		ContentType:   contentType,
	}, nil
}

// newKey ads/<yyyymmdd_HHMMSS>_<uuid8>.<ext>
func (s *mediaServiceImpl) newKey(filename string) string {
	return fmt.Sprintf("%s/%s_%s.%s",
		s.opts.KeyPrefix,
		s.opts.Now().UTC().Format(consts.UploadKeyTimeFmt),
		uuid.NewString()[:8],
		util.FileExt(filename),
	)
}

func resolveMediaType(filename, declared string) (string, error) {
	ct := util.ResolveContentType(filename, declared)
	if !strings.HasPrefix(ct, consts.MimePrefixImage+"/") && !util.IsVideo(ct) {
		return "", validationError("unsupported content type %s", ct)
	}
	return ct, nil
}

// decodeBase64Payload 兼容 data URL 前缀与无填充编码
func decodeBase64Payload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
