package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adboard"

// Metrics 进程内的业务指标，使用独立 Registry
type Metrics struct {
	registry *prometheus.Registry

	AdsCreated     *prometheus.CounterVec
	AdsDeleted     *prometheus.CounterVec
	ViewIncrements *prometheus.CounterVec
	MediaDeletes   *prometheus.CounterVec
	UploadsIssued  *prometheus.CounterVec
	SweepRuns      *prometheus.CounterVec
	SweepDuration  prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AdsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_created_total",
			Help:      "Ads persisted, by featured flag.",
		}, []string{"featured"}),
		AdsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_deleted_total",
			Help:      "Ads deleted, by delete type (soft, hard, sweep).",
		}, []string{"type"}),
		ViewIncrements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_increments_total",
			Help:      "Listing view counter increments, by outcome.",
		}, []string{"result"}),
		MediaDeletes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_deletes_total",
			Help:      "Blob deletions, by outcome.",
		}, []string{"result"}),
		UploadsIssued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload URLs issued and direct uploads stored.",
		}, []string{"kind"}),
		SweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Expiration sweep runs, by outcome.",
		}, []string{"result"}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of expiration sweep runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

// Handler /metrics 端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome 将 error 转换为 result 标签
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
