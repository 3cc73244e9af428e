package job

import (
	"AdBoard/internal/pkg/logger"
	"AdBoard/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ExpiredAdSweepJob 定时清理超过保留期的广告及其媒体
type ExpiredAdSweepJob struct {
	sweepSvc service.SweepService
	timeout  time.Duration
}

func NewExpiredAdSweepJob(sweepSvc service.SweepService, timeout time.Duration) *ExpiredAdSweepJob {
	return &ExpiredAdSweepJob{sweepSvc: sweepSvc, timeout: timeout}
}

func (s *ExpiredAdSweepJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "sweep-"+uuid.NewString())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	log.InfoContext(ctx, "start expired ad sweep job")

	report, err := s.sweepSvc.Run(ctx)
	if errors.Is(err, service.ErrSweepInProgress) {
		log.InfoContext(ctx, "expired ad sweep skipped, another run is in progress")
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "expired ad sweep job failed", "err", err)
		return
	}

	if report.AdsDeleted > 0 || len(report.Errors) > 0 {
		log.InfoContext(ctx, "expired ad sweep job finished",
			"adsDeleted", report.AdsDeleted,
			"imagesRemoved", report.ImagesRemoved,
			"errors", len(report.Errors),
		)
	}
}
