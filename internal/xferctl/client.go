package xferctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jimyag/xfer/pkg/apierror"
	"github.com/rs/zerolog"
)

// Client 调用 xfer 服务的 HTTP 客户端
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient 创建客户端，baseURL 例如 http://127.0.0.1:7777
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Call 以 JSON POST 调用 /api/<action>，服务端返回错误时返回 *apierror.Error
func (c *Client) Call(ctx context.Context, action string, req, resp any) error {
	logger := zerolog.Ctx(ctx)

	var body bytes.Buffer
	if req != nil {
		if err := json.NewEncoder(&body).Encode(req); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	url := c.baseURL + "/api/" + action
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call %s: %w", action, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	logger.Debug().
		Str("url", url).
		Int("status", httpResp.StatusCode).
		Str("requestID", httpResp.Header.Get("X-Request-ID")).
		Dur("latency", time.Since(start)).
		Msg("API call finished")

	if httpResp.StatusCode >= http.StatusBadRequest {
		return decodeError(httpResp.StatusCode, data)
	}
	if resp == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError 把错误响应转成 *apierror.Error
func decodeError(status int, data []byte) error {
	var errResp apierror.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil || len(errResp.Errors) == 0 {
		return apierror.NewErrorWithStatus(apierror.ErrInternalError.Code,
			fmt.Sprintf("unexpected status %d: %s", status, strings.TrimSpace(string(data))), status)
	}
	e := errResp.Errors[0]
	return apierror.NewErrorWithStatus(e.Code, e.Message, status)
}
