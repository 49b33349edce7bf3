package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/rs/zerolog"
)

// renderResponse 渲染响应，nil 返回 204
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
	case int, int64, uint64, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
	default:
		ctx.JSON(http.StatusOK, response)
	}
}

// renderError 渲染错误响应
// statusCode 是错误链中没有 *apierror.Error 时使用的状态码
func renderError(ctx *gin.Context, statusCode int, err error) {
	apiErr := apierror.From(err)
	if statusCode == http.StatusBadRequest && apiErr.Code == apierror.ErrInternalError.Code {
		// 绑定/校验阶段的普通错误
		apiErr = apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
	}

	status := apiErr.Status()
	logger := zerolog.Ctx(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("Request rejected")
	}

	ctx.AbortWithStatusJSON(status, apierror.NewErrorResponse(RequestID(ctx), apiErr))
}
