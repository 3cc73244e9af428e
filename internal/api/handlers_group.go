package api

import (
	"AdBoard/internal/api/handler"
	"net/http"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AdHandler    *handler.AdHandler
	MediaHandler *handler.MediaHandler
	SweepHandler *handler.SweepHandler
	// Metrics Prometheus 抓取端点，为空时不注册 /metrics
	Metrics http.Handler
}
