package logger

import (
	"AdBoard/internal/api/config"
	"io"
	log "log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

var LogWriter io.Writer = os.Stdout

// InitLogger 初始化全局 slog，stdout JSON 为主，配置了 sentry_dsn 时错误级别额外上报 Sentry
// 返回的 flush 需在进程退出前调用
func InitLogger(cfg config.LogConfig) (flush func()) {
	level := ParseLevel(cfg.Level)
	handlers := []log.Handler{
		log.NewJSONHandler(LogWriter, &log.HandlerOptions{Level: level}),
	}

	flush = func() {}
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{Level: log.LevelError}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		} else {
			log.Warn("Failed to init sentry, logging to stdout only", "err", err)
		}
	}

	var handler log.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	log.SetDefault(log.New(&ContextHandler{handler}))
	return flush
}

// ParseLevel 未识别的级别回落到 info
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
