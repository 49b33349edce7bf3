package ginx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindArgs 绑定请求参数到 args 结构体
// 优先级：JSON body > URI 参数 > Query 参数，最后统一校验
func bindArgs(ctx *gin.Context, args any) error {
	if ctx.Request.Body != nil && ctx.Request.ContentLength != 0 {
		if err := json.NewDecoder(ctx.Request.Body).Decode(args); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode request body: %w", err)
		}
	}

	if len(ctx.Params) > 0 {
		params := make(map[string][]string, len(ctx.Params))
		for _, p := range ctx.Params {
			params[p.Key] = []string{p.Value}
		}
		if err := binding.MapFormWithTag(args, params, "uri"); err != nil {
			return fmt.Errorf("bind uri: %w", err)
		}
	}

	if query := ctx.Request.URL.Query(); len(query) > 0 {
		if err := binding.MapFormWithTag(args, query, "form"); err != nil {
			return fmt.Errorf("bind query: %w", err)
		}
	}

	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(args)
}
