// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且递增的 ID，ID 按时间有序，
// 因此同一张表里按 ID 排序即按创建顺序排序。
//
// 生成的 ID 格式：
//   - 迁移会话 ID: ts-{递增数字}
//   - 快照 ID: snap-{递增数字}
//   - 历史记录 ID: hist-{递增数字}
//   - 任务 ID: job-{递增数字}
//   - 请求 ID: req-{递增数字}
//
// 使用方式：
//
//	gen := idgen.New()
//	sessionID, err := gen.GenerateSessionID()
//	// sessionID: "ts-1234567890"
//
// 也可以直接使用包级别函数（共享默认生成器）：
//
//	jobID, err := idgen.GenerateJobID()
package idgen
