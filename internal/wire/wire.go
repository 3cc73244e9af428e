package wire

import (
	"AdBoard/internal/api"
	"AdBoard/internal/api/config"
	"AdBoard/internal/api/handler"
	"AdBoard/internal/job"
	"AdBoard/internal/pkg/cdn"
	"AdBoard/internal/pkg/consts"
	"AdBoard/internal/pkg/cron"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/pkg/redis"
	"AdBoard/internal/pkg/scoring"
	"AdBoard/internal/pkg/storage"
	"AdBoard/internal/repository"
	"AdBoard/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	Redis    *goredis.Client
	CronMgr  *cron.Manager
	SweepSvc service.SweepService
	Metrics  *metrics.Metrics
}

// Close 释放外部连接
func (a *ApplicationContainer) Close() error {
	return a.Redis.Close()
}

// BuildApplication 建立外部连接并组装所有依赖，cron 任务只登记不启动
func BuildApplication(ctx context.Context, cfg *config.Config) (*ApplicationContainer, error) {
	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	blob, err := storage.New(ctx, cfg.Blob)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("blob store ready", "driver", cfg.Blob.Driver, "bucket", blob.Bucket())

	app, err := Assemble(cfg, rdb, blob)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return app, nil
}

// Assemble 在已有连接上组装服务，测试中可传入 miniredis 与 mock 存储
func Assemble(cfg *config.Config, rdb *goredis.Client, blob storage.BlobStore) (*ApplicationContainer, error) {
	schema, err := scoring.ParseSchema(cfg.Ads.ScoreSchema)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(schema)
	if err != nil {
		return nil, err
	}
	log.Info("ad scoring configured", "schema", scorer.Schema(), "maxScore", scorer.MaxScore())
	normalizer := cdn.NewNormalizer(cfg.CDN.Domain, cfg.CDN.LegacyPrefixes)
	m := metrics.New()

	adRepo := repository.NewAdRepo(rdb, cfg.Store)

	adService := service.NewAdService(adRepo, blob, normalizer, scorer, m, service.AdOptions{
		Retention:        cfg.Ads.Retention(),
		MediaConcurrency: cfg.Sweep.Concurrency,
	})
	listingService := service.NewListingService(adRepo, normalizer, m, service.ListingOptions{
		DefaultLimit:        cfg.Ads.DefaultPageSize,
		MaxLimit:            cfg.Ads.MaxPageSize,
		CountAnonymousViews: cfg.Ads.CountAnonymousViews,
	})
	mediaService := service.NewMediaService(blob, normalizer, m, service.MediaOptions{
		KeyPrefix: cfg.Upload.KeyPrefix,
		URLTTL:    cfg.Upload.URLTTL,
		MaxBytes:  cfg.Upload.MaxBytes,
	})

	locker := redis.NewLock(rdb, cfg.Store.KeyPrefix+consts.SweepLockSuffix, lockOwner(), cfg.Sweep.LockTTL)
	sweepService := service.NewSweepService(adRepo, adService, locker, m, service.SweepOptions{
		RetentionDays: cfg.Ads.RetentionDays,
		ScanPage:      cfg.Sweep.ScanPage,
	})

	handlers := &api.HandlersGroup{
		AdHandler:    handler.NewAdHandler(adService, listingService),
		MediaHandler: handler.NewMediaHandler(mediaService, cfg.Upload.MaxBytes),
		SweepHandler: handler.NewSweepHandler(sweepService),
		Metrics:      m.Handler(),
	}
	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager()
	if cfg.Sweep.Enabled {
		cronMgr.Add("expired_ad_sweep", cfg.Sweep.Schedule, job.NewExpiredAdSweepJob(sweepService, cfg.Sweep.Timeout))
	}

	return &ApplicationContainer{
		Router:   router,
		Redis:    rdb,
		CronMgr:  cronMgr,
		SweepSvc: sweepService,
		Metrics:  m,
	}, nil
}

func lockOwner() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.NewString()[:8])
}
