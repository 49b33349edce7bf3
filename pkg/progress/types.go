package progress

import "time"

// Placeholder 无法计算时用于展示的占位符
const Placeholder = "—"

// DefaultUnit 默认容量单位
const DefaultUnit = "TB"

// Reading 某个卷在某一时刻的容量读数
// Free + Used == Total 是期望关系，但不做强制校验
type Reading struct {
	Total float64 `json:"total"`
	Free  float64 `json:"free"`
	Used  float64 `json:"used"`
}

// HistoryEntry 快照读数的历史归档，创建后不再修改
type HistoryEntry struct {
	Volume     string    `json:"volume"`
	Reading    Reading   `json:"reading"`
	ObservedAt time.Time `json:"observed_at"`
}

// Rate 传输速率
type Rate struct {
	Rate         float64 `json:"rate"`          // 每小时传输的容量
	Unit         string  `json:"unit"`          // 例如 TB/hour
	Delta        float64 `json:"delta"`         // 两次观测之间的容量增量
	HoursElapsed float64 `json:"hours_elapsed"` // 两次观测之间的小时数
}
