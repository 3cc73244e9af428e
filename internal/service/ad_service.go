package service

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/cdn"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/pkg/scoring"
	"AdBoard/internal/pkg/storage"
	"AdBoard/internal/pkg/util"
	"AdBoard/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DeleteTypeSoft = "soft"
	DeleteTypeHard = "hard"

	defaultMediaConcurrency = 4
)

// MediaRemoval 单条记录的媒体清理结果
type MediaRemoval struct {
	Removed int
	Skipped int
	Errors  []string
}

// PurgeResult 媒体与记录的删除结果，Err 非空表示记录删除失败
type PurgeResult struct {
	Media MediaRemoval
	Err   error
}

type AdService interface {
	CreateAd(ctx context.Context, req *dto.CreateAdDTO) (*model.Ad, error)
	GetAd(ctx context.Context, id string) (*model.Ad, error)
	SoftDelete(ctx context.Context, id, ownerID string) (*model.Ad, error)
	HardDelete(ctx context.Context, id, ownerID string) (*MediaRemoval, error)
	// Purge 先删媒体再删记录，供硬删除与过期清理共用
	Purge(ctx context.Context, ad *model.Ad) PurgeResult
	Like(ctx context.Context, id string) (int64, error)
	AddComment(ctx context.Context, id string, req *dto.AddCommentDTO) (*model.Comment, error)
}

// AdOptions 生命周期相关配置
type AdOptions struct {
	Retention        time.Duration
	MediaConcurrency int
	Now              func() time.Time
}

type adServiceImpl struct {
	repo       repository.AdRepo
	blob       storage.BlobStore
	normalizer *cdn.Normalizer
	scorer     *scoring.Scorer
	metrics    *metrics.Metrics
	opts       AdOptions
}

func NewAdService(repo repository.AdRepo, blob storage.BlobStore, normalizer *cdn.Normalizer,
	scorer *scoring.Scorer, m *metrics.Metrics, opts AdOptions) AdService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MediaConcurrency <= 0 {
		opts.MediaConcurrency = defaultMediaConcurrency
	}
	return &adServiceImpl{
		repo:       repo,
		blob:       blob,
		normalizer: normalizer,
		scorer:     scorer,
		metrics:    m,
		opts:       opts,
	}
}

// CreateAd 发布广告，校验失败时不会触达存储
func (s *adServiceImpl) CreateAd(ctx context.Context, req *dto.CreateAdDTO) (*model.Ad, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	userName := strings.TrimSpace(req.UserName)

	switch {
	case title == "":
		return nil, validationError("title is required")
	case description == "":
		return nil, validationError("description is required")
	case userName == "":
		return nil, validationError("userName is required")
	case len(req.ImageURLs)+len(req.VideoURLs) == 0:
		return nil, validationError("at least one image or video is required")
	}

	images := s.normalizer.NormalizeAll(req.ImageURLs)
	videos := s.normalizer.NormalizeAll(req.VideoURLs)
	if len(images)+len(videos) == 0 {
		return nil, validationError("no usable media: embedded data is not accepted, upload the file first")
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = util.DeriveUserID(userName)
	}

	var profileImage string
	if strings.TrimSpace(req.UserProfileImage) != "" {
		if u, err := s.normalizer.Normalize(req.UserProfileImage); err == nil {
			profileImage = u
		} else {
			log.WarnContext(ctx, "dropping profile image", "userId", userID, "err", err)
		}
	}

	ad := &model.Ad{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      description,
		ImageURLs:        images,
		VideoURLs:        videos,
		ImageCount:       len(images),
		VideoCount:       len(videos),
		UserID:           userID,
		UserName:         userName,
		UserProfileImage: profileImage,
		BusinessName:     strings.TrimSpace(req.BusinessName),
		ContactInfo:      strings.TrimSpace(req.ContactInfo),
		Location:         strings.TrimSpace(req.Location),
		Category:         strings.TrimSpace(req.Category),
		Status:           model.AdStatusActive,
		Comments:         []model.Comment{},
	}

	result := s.scorer.Score(scoring.Input{
		ImageCount:          ad.ImageCount,
		VideoCount:          ad.VideoCount,
		DescriptionLength:   util.RuneLen(ad.Description),
		TitleLength:         util.RuneLen(ad.Title),
		HasProfileImage:     ad.UserProfileImage != "",
		HasBusinessMetadata: ad.BusinessName != "" || ad.ContactInfo != "" || ad.Location != "",
	})
	ad.QualityScore = result.Score
	ad.Featured = result.Featured
	ad.ScoreSchema = string(result.Schema)

	now := s.opts.Now().UTC()
	expiresAt := now.Add(s.opts.Retention)
	ad.CreatedAt = model.FormatTime(now)
	ad.UpdatedAt = ad.CreatedAt
	ad.ExpiresAt = model.FormatTime(expiresAt)
	ad.TTL = expiresAt.Unix()

	if err := s.repo.Put(ctx, ad); err != nil {
		return nil, storageError("put ad", err)
	}

	s.metrics.AdsCreated.WithLabelValues(strconv.FormatBool(ad.Featured)).Inc()
	log.InfoContext(ctx, "ad created",
		"adId", ad.ID,
		"userId", ad.UserID,
		"featured", ad.Featured,
		"score", ad.QualityScore,
		"images", ad.ImageCount,
		"videos", ad.VideoCount,
	)
	return ad, nil
}

func (s *adServiceImpl) GetAd(ctx context.Context, id string) (*model.Ad, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	presentAd(s.normalizer, ad)
	return ad, nil
}

// SoftDelete 仅修改状态，媒体保留
func (s *adServiceImpl) SoftDelete(ctx context.Context, id, ownerID string) (*model.Ad, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = checkOwner(ad, ownerID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, map[string]any{
		repository.AttrStatus:    model.AdStatusDeleted,
		repository.AttrUpdatedAt: model.FormatTime(s.opts.Now()),
	})
	if errors.Is(err, repository.ErrAdNotFound) {
		return nil, notFoundError(id)
	}
	if err != nil {
		return nil, storageError("soft delete ad", err)
	}

	s.metrics.AdsDeleted.WithLabelValues(DeleteTypeSoft).Inc()
	log.InfoContext(ctx, "ad soft deleted", "adId", id)
	return updated, nil
}

// HardDelete 删除媒体与记录，媒体删除失败不阻断记录删除
func (s *adServiceImpl) HardDelete(ctx context.Context, id, ownerID string) (*MediaRemoval, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = checkOwner(ad, ownerID); err != nil {
		return nil, err
	}

	res := s.Purge(ctx, ad)
	if res.Err != nil {
		return nil, storageError("delete ad", res.Err)
	}
	s.metrics.AdsDeleted.WithLabelValues(DeleteTypeHard).Inc()
	log.InfoContext(ctx, "ad hard deleted", "adId", id, "imagesRemoved", res.Media.Removed)
	return &res.Media, nil
}

func (s *adServiceImpl) Purge(ctx context.Context, ad *model.Ad) PurgeResult {
	media := s.removeMedia(ctx, ad)
	if _, err := s.repo.Delete(ctx, ad.ID); err != nil {
		return PurgeResult{Media: media, Err: err}
	}
	return PurgeResult{Media: media}
}

// removeMedia 并发删除媒体，每个 goroutine 只记录自己的结果
func (s *adServiceImpl) removeMedia(ctx context.Context, ad *model.Ad) MediaRemoval {
	urls := ad.MediaURLs()
	var out MediaRemoval
	if len(urls) == 0 {
		return out
	}

	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, ok := s.normalizer.StorageKey(u)
		if !ok {
			out.Skipped++
			log.InfoContext(ctx, "skipping media outside our storage", "adId", ad.ID, "url", u)
			continue
		}
		keys = append(keys, key)
	}

	errs := make([]error, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MediaConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			errs[i] = s.blob.Delete(gctx, key)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			msg := fmt.Sprintf("failed to delete media %s of ad %s: %v", keys[i], ad.ID, err)
			out.Errors = append(out.Errors, msg)
			log.WarnContext(ctx, "media delete failed", "adId", ad.ID, "key", keys[i], "err", err)
			continue
		}
		out.Removed++
	}
	s.metrics.MediaDeletes.WithLabelValues("ok").Add(float64(out.Removed))
	s.metrics.MediaDeletes.WithLabelValues("error").Add(float64(len(out.Errors)))
	return out
}

func (s *adServiceImpl) Like(ctx context.Context, id string) (int64, error) {
	likes, err := s.repo.IncrementCounter(ctx, id, repository.AttrLikes, 1)
	if errors.Is(err, repository.ErrAdNotFound) {
		return 0, notFoundError(id)
	}
	if err != nil {
		return 0, storageError("like ad", err)
	}
	return likes, nil
}

func (s *adServiceImpl) AddComment(ctx context.Context, id string, req *dto.AddCommentDTO) (*model.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, validationError("text is required")
	}

	now := model.FormatTime(s.opts.Now())
	comment := model.Comment{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(req.UserID),
		UserName:  strings.TrimSpace(req.UserName),
		Text:      text,
		CreatedAt: now,
	}

	err := s.repo.AppendComment(ctx, id, comment, now)
	if errors.Is(err, repository.ErrAdNotFound) {
		return nil, notFoundError(id)
	}
	if err != nil {
		return nil, storageError("add comment", err)
	}
	return &comment, nil
}

func (s *adServiceImpl) load(ctx context.Context, id string) (*model.Ad, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationError("id is required")
	}
	ad, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrAdNotFound) {
		return nil, notFoundError(id)
	}
	if err != nil {
		return nil, storageError("get ad", err)
	}
	return ad, nil
}

// checkOwner ownerID 为空时不校验
func checkOwner(ad *model.Ad, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID != "" && ownerID != ad.UserID {
		return fmt.Errorf("%w: ad %s is not owned by %s", ErrPermissionDenied, ad.ID, ownerID)
	}
	return nil
}
