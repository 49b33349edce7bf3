// Package apierror 提供统一的 API 错误类型
//
// 错误响应使用 JSON 格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "Snapshot.NotFound",
//	            "message": "snapshot 'C' does not exist"
//	        }
//	    ],
//	    "requestID": "req-1234567890"
//	}
//
// 预定义错误（errors.go）携带默认的 HTTP 状态码，业务代码通过
// WrapError 附加具体消息和原始错误：
//
//	return apierror.WrapError(apierror.ErrSnapshotNotFound,
//	    fmt.Sprintf("snapshot '%s' does not exist", name), err)
//
// 原始错误（RawError）只用于服务端日志，不会出现在响应中。
// 通过 errors.Is 可以按错误码判断错误类型：
//
//	if errors.Is(err, apierror.ErrStartTimeLocked) { ... }
package apierror
