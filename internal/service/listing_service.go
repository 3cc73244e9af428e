package service

import (
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/cdn"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/pkg/util"
	"AdBoard/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// StatusAll 不按状态过滤
const StatusAll = "all"

const viewIncrementConcurrency = 8

// ListQuery 列表条件，零值字段不参与过滤
type ListQuery struct {
	Status       string
	UserID       string
	UserName     string
	FeaturedOnly bool
	Limit        int
	// Token 上一页返回的续传 token
	Token string
}

type ListResult struct {
	Ads     []*model.Ad
	HasMore bool
	Token   string
}

type ListingService interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
}

type ListingOptions struct {
	DefaultLimit        int
	MaxLimit            int
	CountAnonymousViews bool
}

type listingServiceImpl struct {
	repo       repository.AdRepo
	normalizer *cdn.Normalizer
	metrics    *metrics.Metrics
	opts       ListingOptions
}

func NewListingService(repo repository.AdRepo, normalizer *cdn.Normalizer, m *metrics.Metrics, opts ListingOptions) ListingService {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(50, opts.MaxLimit)
	}
	return &listingServiceImpl{repo: repo, normalizer: normalizer, metrics: m, opts: opts}
}

func (s *listingServiceImpl) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	startKey, err := util.DecodeCursor(strings.TrimSpace(q.Token))
	if err != nil {
		return nil, fmt.Errorf("%w: lastKey is not a valid continuation token", ErrMalformedInput)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	limit = min(limit, s.opts.MaxLimit)

	page, err := s.repo.Scan(ctx, s.buildFilter(q), limit, startKey)
	if err != nil {
		return nil, storageError("scan ads", err)
	}

	ads := page.Items
	for _, ad := range ads {
		presentAd(s.normalizer, ad)
	}
	s.incrementViews(ctx, ads, strings.TrimSpace(q.UserID))
	SortAds(ads)

	return &ListResult{
		Ads:     ads,
		HasMore: page.LastKey != "",
		Token:   util.EncodeCursor(page.LastKey),
	}, nil
}

func (s *listingServiceImpl) buildFilter(q ListQuery) repository.Filter {
	var f repository.Filter
	status := strings.ToLower(strings.TrimSpace(q.Status))
	switch status {
	case "":
		f = append(f, repository.Eq(repository.AttrStatus, model.AdStatusActive))
	case StatusAll:
	default:
		f = append(f, repository.Eq(repository.AttrStatus, status))
	}
	if v := strings.TrimSpace(q.UserID); v != "" {
		f = append(f, repository.Eq(repository.AttrUserID, v))
	}
	if v := strings.TrimSpace(q.UserName); v != "" {
		f = append(f, repository.Eq(repository.AttrUserName, v))
	}
	if q.FeaturedOnly {
		f = append(f, repository.Eq(repository.AttrFeatured, "true"))
	}
	return f
}

// incrementViews 非本人浏览时累加浏览数，失败只记录日志，返回值总是体现本次浏览
func (s *listingServiceImpl) incrementViews(ctx context.Context, ads []*model.Ad, viewerID string) {
	if viewerID == "" && !s.opts.CountAnonymousViews {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(viewIncrementConcurrency)
	for _, ad := range ads {
		if viewerID != "" && viewerID == ad.UserID {
			continue
		}
		ad.ViewCount++
		g.Go(func() error {
			_, err := s.repo.IncrementCounter(gctx, ad.ID, repository.AttrViewCount, 1)
			if err != nil {
				log.WarnContext(ctx, "failed to increment view count", "adId", ad.ID, "err", err)
			}
			s.metrics.ViewIncrements.WithLabelValues(metrics.Outcome(err)).Inc()
			return nil
		})
	}
	_ = g.Wait()
}

// SortAds 推荐在前，组内按创建时间倒序，时间缺失或无法解析视为最旧
func SortAds(ads []*model.Ad) {
	slices.SortStableFunc(ads, func(a, b *model.Ad) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		ta, okA := a.CreatedTime()
		tb, okB := b.CreatedTime()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}
