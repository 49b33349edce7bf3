// Package metrics 提供 Prometheus 指标
//
// 进度相关的 gauge 在每次 DescribeProgress 时刷新，
// HTTP 指标由 Middleware 记录
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 快照更新来源
const (
	SourceManual    = "manual"
	SourceFreeSpace = "free-space"
	SourceProbe     = "probe"
)

var (
	// progressPercent 最近一次计算的有效完成百分比
	progressPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xfer_progress_percent",
		Help: "Effective completion percent of the current transfer session",
	})

	// transferRate 最近一次计算的传输速率，单位为配置的容量单位每小时
	transferRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xfer_transfer_rate_per_hour",
		Help: "Transfer rate in configured units per hour, 0 when unknown",
	})

	// etaRemaining 距离预计完成的秒数，未知时为 -1
	etaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xfer_eta_remaining_seconds",
		Help: "Seconds until the estimated completion time, -1 when unknown",
	})

	snapshotUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xfer_snapshot_used",
			Help: "Used capacity of a snapshot in configured units",
		},
		[]string{"snapshot"},
	)

	snapshotUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xfer_snapshot_updates_total",
			Help: "Number of snapshot readings recorded",
		},
		[]string{"snapshot", "source"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xfer_http_requests_total",
			Help: "Number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xfer_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// ObserveProgress 用一次进度汇总刷新 gauge
func ObserveProgress(s progress.Summary, observed time.Time) {
	progressPercent.Set(s.EffectivePercent)

	if s.Rate != nil {
		transferRate.Set(s.Rate.Rate)
	} else {
		transferRate.Set(0)
	}

	if s.ETA != nil {
		etaRemaining.Set(max(0, s.ETA.Sub(observed).Seconds()))
	} else {
		etaRemaining.Set(-1)
	}
}

// ObserveSnapshot 记录一次快照读数
func ObserveSnapshot(name, source string, used float64) {
	snapshotUsed.WithLabelValues(name).Set(used)
	snapshotUpdates.WithLabelValues(name, source).Inc()
}

// Middleware 记录 HTTP 请求数和耗时
//
// path 使用路由模板，未匹配的路由记为 unmatched
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		httpRequestsTotal.WithLabelValues(ctx.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
