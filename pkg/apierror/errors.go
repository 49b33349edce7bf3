package apierror

import "net/http"

// 通用错误
var (
	// ErrInternalError 内部错误
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "An internal error has occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrInvalidParameter 请求参数不合法
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameterValue",
		Message:    "A parameter specified in the request is not valid.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 迁移会话相关错误
var (
	// ErrSessionNotFound 迁移会话不存在
	ErrSessionNotFound = &Error{
		Code:       "Session.NotFound",
		Message:    "The transfer session does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrStartTimeLocked 开始时间设置后不允许修改
	ErrStartTimeLocked = &Error{
		Code:       "Session.StartTimeLocked",
		Message:    "The start time is locked once set.",
		HTTPStatus: http.StatusConflict,
	}
)

// 快照相关错误
var (
	// ErrSnapshotNotFound 快照不存在
	ErrSnapshotNotFound = &Error{
		Code:       "Snapshot.NotFound",
		Message:    "The snapshot does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrFreeSpaceOutOfRange 剩余空间必须在 [0, total] 之间
	ErrFreeSpaceOutOfRange = &Error{
		Code:       "Snapshot.FreeSpaceOutOfRange",
		Message:    "Free space must be between 0 and the total capacity.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrProbeNotConfigured 快照没有关联的存储池
	ErrProbeNotConfigured = &Error{
		Code:       "Snapshot.ProbeNotConfigured",
		Message:    "No storage pool is configured for the snapshot.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrProbeFailed 读取存储池容量失败
	ErrProbeFailed = &Error{
		Code:       "Snapshot.ProbeFailed",
		Message:    "Failed to read capacity from the storage pool.",
		HTTPStatus: http.StatusBadGateway,
	}
)

// 任务相关错误
var (
	// ErrJobNotFound 任务不存在
	ErrJobNotFound = &Error{
		Code:       "Job.NotFound",
		Message:    "The job does not exist.",
		HTTPStatus: http.StatusNotFound,
	}
)
