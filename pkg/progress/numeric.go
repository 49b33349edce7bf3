package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// isFinite 判断是否为有限数（排除 NaN 和 ±Inf）
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// inPercentRange 判断百分比是否落在 (0, 100]
func inPercentRange(v float64) bool {
	return isFinite(v) && v > 0 && v <= 100
}

// ParseManualPercent 解析手动输入的百分比
// 允许前后空白和末尾的 "%"，只有 (0, 100] 内的有限数才有效
func ParseManualPercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !inPercentRange(v) {
		return 0, false
	}
	return v, true
}

// timeLayouts ParseTimePoint 依次尝试的格式
// 不带时区的格式按本地时区解析（与 HTML datetime-local 输入一致）
var timeLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
}

// ParseTimePoint 解析时间点
// 空字符串表示"未设置"，返回零值和 nil；无法解析时返回 error
func ParseTimePoint(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, l := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// FormatPercent 格式化百分比，保留两位小数
func FormatPercent(p float64, ok bool) string {
	if !ok || !isFinite(p) {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", p)
}

// FormatRate 格式化传输速率，例如 "2.00 TB/hour"
func FormatRate(r Rate, ok bool) string {
	if !ok || !isFinite(r.Rate) {
		return Placeholder
	}
	return fmt.Sprintf("%.2f %s", r.Rate, r.Unit)
}

const (
	msPerHour   = float64(time.Hour / time.Millisecond)
	msPerMinute = float64(time.Minute / time.Millisecond)
)

// FormatHoursMinutes 把时长格式化为 "<小时>h <分钟>m"
// 小时向下取整，分钟四舍五入；分钟进位到 60 时计入小时
// 负时长返回占位符
func FormatHoursMinutes(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	if !isFinite(ms) || ms < 0 {
		return Placeholder
	}
	hours := math.Floor(ms / msPerHour)
	minutes := math.Round(math.Mod(ms, msPerHour) / msPerMinute)
	if minutes >= 60 {
		hours++
		minutes -= 60
	}
	return fmt.Sprintf("%dh %dm", int64(hours), int64(minutes))
}
