// Package ginx 提供 gin 的 handler 适配器和通用中间件
//
// 适配器负责参数绑定、参数校验和响应渲染，业务 handler 只需要关心
// 入参和返回值：
//
//	// 有参数，有返回值，有 error
//	router.POST("/api/add-job", ginx.Adapt5(func(c *gin.Context, args *AddJobRequest) (*AddJobResponse, error) {
//	    ...
//	}))
//
//	// 无参数，只有返回值
//	router.GET("/healthz", ginx.Adapt2(func(c *gin.Context) string {
//	    return "ok"
//	}))
//
// 参数绑定顺序：JSON body > URI 参数 > Query 参数，全部绑定完成后统一
// 执行 `binding` tag 校验；如果参数实现了 IsValid() error，再调用它。
//
// 错误渲染：*apierror.Error（包括错误链中包装的）使用其 HTTP 状态码和
// 错误码，其他错误一律按 500 InternalError 返回，原始错误只写日志。
//
// RequestContext 中间件为每个请求生成请求 ID，并把携带 request_id 的
// zerolog.Logger 放入请求上下文，handler 和 service 通过
// zerolog.Ctx(ctx) 取用。engine 需要开启 ContextWithFallback。
package ginx
