package progress

import (
	"fmt"
	"math"
	"time"
)

// PercentPolicy 根据源/目标快照读数计算完成百分比的策略
// 不同策略的分母不同，同样的输入会得到不同结果，不能混用
type PercentPolicy interface {
	Name() string
	Percent(source, destination Reading) (float64, bool)
}

const (
	// PolicyRatio 已用空间比例策略的名称
	PolicyRatio = "ratio"
	// PolicyCapacityDelta 容量差值策略的名称
	PolicyCapacityDelta = "capacity-delta"
)

var (
	// RatioPolicy percent = destination.Used / source.Used * 100
	RatioPolicy PercentPolicy = ratioPolicy{}
	// CapacityDeltaPolicy percent = max(0, source.Used-destination.Used) / source.Total * 100
	CapacityDeltaPolicy PercentPolicy = capacityDeltaPolicy{}
)

type ratioPolicy struct{}

func (ratioPolicy) Name() string { return PolicyRatio }

func (ratioPolicy) Percent(source, destination Reading) (float64, bool) {
	if !(source.Used > 0) {
		return 0, false
	}
	pct := destination.Used / source.Used * 100
	if !isFinite(pct) || pct < 0 {
		return 0, false
	}
	return pct, true
}

type capacityDeltaPolicy struct{}

func (capacityDeltaPolicy) Name() string { return PolicyCapacityDelta }

func (capacityDeltaPolicy) Percent(source, destination Reading) (float64, bool) {
	if !(source.Total > 0) {
		return 0, false
	}
	pct := math.Max(0, source.Used-destination.Used) / source.Total * 100
	if !isFinite(pct) || pct <= 0 {
		return 0, false
	}
	return pct, true
}

// ParsePercentPolicy 按名称获取百分比策略，空字符串返回默认的 RatioPolicy
func ParsePercentPolicy(name string) (PercentPolicy, error) {
	switch name {
	case "", PolicyRatio:
		return RatioPolicy, nil
	case PolicyCapacityDelta:
		return CapacityDeltaPolicy, nil
	default:
		return nil, fmt.Errorf("unknown percent policy %q", name)
	}
}

// PercentFromSnapshots 使用 RatioPolicy 计算完成百分比
func PercentFromSnapshots(source, destination Reading) (float64, bool) {
	return RatioPolicy.Percent(source, destination)
}

// EffectivePercent 选取用于 ETA 计算的百分比
// 优先级：有效的手动百分比 > 推导百分比 > 0
func EffectivePercent(manual string, derived float64, derivedOK bool) float64 {
	if v, ok := ParseManualPercent(manual); ok {
		return v
	}
	if derivedOK && isFinite(derived) {
		return derived
	}
	return 0
}

// EstimateCompletion 按恒定速率推算完成时间
// 需要 start、observed 都已设置，percent 在 (0, 100]，且 observed 晚于 start
func EstimateCompletion(start, observed time.Time, percent float64) (time.Time, bool) {
	if start.IsZero() || observed.IsZero() || !inPercentRange(percent) {
		return time.Time{}, false
	}
	elapsed := observed.Sub(start)
	if elapsed <= 0 {
		return time.Time{}, false
	}
	fraction := percent / 100
	total := float64(elapsed) / fraction
	if !isFinite(total) || total >= math.MaxInt64 {
		return time.Time{}, false
	}
	remaining := time.Duration(total) - elapsed
	return observed.Add(remaining), true
}

// RemainingDuration 格式化距离 ETA 的剩余时间
// ETA 未设置或已经过去时返回占位符
func RemainingDuration(eta, observed time.Time) string {
	if eta.IsZero() || observed.IsZero() {
		return Placeholder
	}
	return FormatHoursMinutes(eta.Sub(observed))
}

// ElapsedDuration 格式化已用时间，负值按 0 处理
func ElapsedDuration(start, observed time.Time) string {
	if start.IsZero() || observed.IsZero() {
		return Placeholder
	}
	return FormatHoursMinutes(max(0, observed.Sub(start)))
}
