package service

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sync/atomic"
	"time"
)

// SweepState 清理任务状态
type SweepState int32

const (
	SweepIdle SweepState = iota
	SweepScanning
	SweepProcessing
	SweepReporting
)

func (s SweepState) String() string {
	switch s {
	case SweepIdle:
		return "idle"
	case SweepScanning:
		return "scanning"
	case SweepProcessing:
		return "processing"
	case SweepReporting:
		return "reporting"
	default:
		return fmt.Sprintf("SweepState(%d)", int32(s))
	}
}

// Locker 跨进程互斥，防止 API 内置 cron 与独立 sweeper 同时运行
type Locker interface {
	TryLock(ctx context.Context, retryTimes int) (bool, error)
	Unlock(ctx context.Context) (bool, error)
}

type SweepService interface {
	Run(ctx context.Context) (*dto.SweepReport, error)
	State() SweepState
}

type SweepOptions struct {
	RetentionDays int
	ScanPage      int
	Now           func() time.Time
}

type sweepServiceImpl struct {
	repo    repository.AdRepo
	ads     AdService
	locker  Locker
	metrics *metrics.Metrics
	opts    SweepOptions
	state   atomic.Int32
}

// NewSweepService locker 可为 nil，此时只做进程内互斥
func NewSweepService(repo repository.AdRepo, ads AdService, locker Locker, m *metrics.Metrics, opts SweepOptions) SweepService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ScanPage <= 0 {
		opts.ScanPage = 100
	}
	return &sweepServiceImpl{repo: repo, ads: ads, locker: locker, metrics: m, opts: opts}
}

func (s *sweepServiceImpl) State() SweepState {
	return SweepState(s.state.Load())
}

func (s *sweepServiceImpl) setState(st SweepState) {
	s.state.Store(int32(st))
}

// Run 执行一轮清理，只有扫描阶段的失败会使整轮失败
func (s *sweepServiceImpl) Run(ctx context.Context) (*dto.SweepReport, error) {
	if !s.state.CompareAndSwap(int32(SweepIdle), int32(SweepScanning)) {
		return nil, ErrSweepInProgress
	}
	defer s.setState(SweepIdle)

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, 1)
		if err != nil {
			s.metrics.SweepRuns.WithLabelValues("error").Inc()
			return nil, storageError("acquire sweep lock", err)
		}
		if !ok {
			s.metrics.SweepRuns.WithLabelValues("skipped").Inc()
			return nil, ErrSweepInProgress
		}
		defer func() {
			if _, err := s.locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				log.WarnContext(ctx, "failed to release sweep lock", "err", err)
			}
		}()
	}

	start := time.Now()
	defer func() { s.metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	cutoff := model.FormatTime(s.opts.Now().AddDate(0, 0, -s.opts.RetentionDays))
	log.InfoContext(ctx, "expired ad sweep started", "cutoff", cutoff, "ttlDays", s.opts.RetentionDays)

	candidates, err := s.scan(ctx, cutoff)
	if err != nil {
		s.metrics.SweepRuns.WithLabelValues("error").Inc()
		log.ErrorContext(ctx, "expired ad sweep scan failed", "err", err)
		return nil, storageError("scan expired ads", err)
	}

	s.setState(SweepProcessing)
	report := &dto.SweepReport{
		Success:    true,
		CutoffDate: cutoff,
		TTLDays:    s.opts.RetentionDays,
		Candidates: len(candidates),
		Errors:     []string{},
	}

	for i, ad := range candidates {
		if err = ctx.Err(); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("sweep interrupted: %d candidates not processed: %v", len(candidates)-i, err))
			break
		}

		res := s.ads.Purge(ctx, ad)
		report.ImagesRemoved += res.Media.Removed
		report.Errors = append(report.Errors, res.Media.Errors...)
		if res.Err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to delete ad %s: %v", ad.ID, res.Err))
			log.WarnContext(ctx, "expired ad delete failed", "adId", ad.ID, "err", res.Err)
			continue
		}
		report.AdsDeleted++
		log.InfoContext(ctx, "expired ad deleted", "adId", ad.ID, "createdAt", ad.CreatedAt, "imagesRemoved", res.Media.Removed)
	}

	s.setState(SweepReporting)
	report.Timestamp = model.FormatTime(s.opts.Now())
	report.Message = fmt.Sprintf("Cleanup completed: %d ads deleted, %d images removed", report.AdsDeleted, report.ImagesRemoved)
	if len(report.Errors) > 0 {
		report.Warning = fmt.Sprintf("%d errors occurred during cleanup", len(report.Errors))
	}

	s.metrics.SweepRuns.WithLabelValues("ok").Inc()
	s.metrics.AdsDeleted.WithLabelValues("sweep").Add(float64(report.AdsDeleted))
	log.InfoContext(ctx, "expired ad sweep finished",
		"candidates", report.Candidates,
		"adsDeleted", report.AdsDeleted,
		"imagesRemoved", report.ImagesRemoved,
		"errors", len(report.Errors),
	)
	return report, nil
}

// scan 先收集全部候选再处理
func (s *sweepServiceImpl) scan(ctx context.Context, cutoff string) ([]*model.Ad, error) {
	filter := repository.Filter{
		repository.Lt(repository.AttrCreatedAt, cutoff),
		repository.Ne(repository.AttrStatus, model.AdStatusDeleted),
	}

	var candidates []*model.Ad
	startKey := ""
	for {
		page, err := s.repo.Scan(ctx, filter, s.opts.ScanPage, startKey)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, page.Items...)
		if page.LastKey == "" {
			return candidates, nil
		}
		startKey = page.LastKey
	}
}
