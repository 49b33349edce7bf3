// Package api 提供 HTTP 接口
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/internal/xfer/config"
	"github.com/jimyag/xfer/internal/xfer/metrics"
	"github.com/jimyag/xfer/pkg/ginx"
	"github.com/jimyag/xfer/pkg/idgen"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type API struct {
	engine *gin.Engine
	server *http.Server
	logger zerolog.Logger

	session  *Session
	snapshot *Snapshot
	job      *Job
}

func New(
	cfg *config.Config,
	logger zerolog.Logger,
	sessionService SessionServiceInterface,
	snapshotService SnapshotServiceInterface,
	jobService JobServiceInterface,
) (*API, error) {
	engine := gin.New()
	// 让 zerolog.Ctx(*gin.Context) 能取到请求上下文里的 logger
	engine.ContextWithFallback = true
	engine.Use(
		gin.Recovery(),
		ginx.RequestContext(logger, idgen.New()),
		metrics.Middleware(),
	)

	api := &API{
		engine:   engine,
		logger:   logger,
		session:  NewSession(sessionService),
		snapshot: NewSnapshot(snapshotService),
		job:      NewJob(jobService),
	}

	engine.GET("/healthz", ginx.Adapt2(func(*gin.Context) string { return "ok" }))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	group := engine.Group("/api")
	api.session.RegisterRoutes(group)
	api.snapshot.RegisterRoutes(group)
	api.job.RegisterRoutes(group)

	api.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api, nil
}

// Handler 返回路由，供测试使用
func (a *API) Handler() http.Handler {
	return a.engine
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "API Server"
}

func (a *API) Run(ctx context.Context) error {
	a.logger.Info().Str("address", a.server.Addr).Msg("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
