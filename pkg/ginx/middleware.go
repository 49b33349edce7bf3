package ginx

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/pkg/idgen"
	"github.com/rs/zerolog"
)

// HeaderRequestID 请求 ID 的响应头
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "ginx.request_id"

// RequestID 返回当前请求的 ID，没有经过 RequestContext 时为空
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}

// RequestContext 为每个请求分配请求 ID，并把带 request_id 的 logger 放入请求上下文
// 请求结束后输出一条访问日志
func RequestContext(base zerolog.Logger, gen *idgen.Generator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		requestID := ctx.GetHeader(HeaderRequestID)
		if requestID == "" {
			id, err := gen.GenerateRequestID()
			if err != nil {
				base.Warn().Err(err).Msg("Failed to generate request ID")
			}
			requestID = id
		}
		ctx.Set(requestIDKey, requestID)
		ctx.Header(HeaderRequestID, requestID)

		logger := base.With().Str("request_id", requestID).Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))

		ctx.Next()

		logger.Info().
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
