package progress

import (
	"slices"
	"time"
)

// RateUnit 根据容量单位生成速率单位
func RateUnit(unit string) string {
	if unit == "" {
		unit = DefaultUnit
	}
	return unit + "/hour"
}

// RateFromHistory 根据指定卷最近两条历史记录估算传输速率
//
// 这是两点瞬时速率，只使用排序后的最后两条记录，不对整个序列做回归。
// 对最新观测反应快，但会随单次读数抖动。
// 调用方给出的顺序不可信，会先按 ObservedAt 升序排序（不修改入参）。
func RateFromHistory(entries []HistoryEntry, volume, unit string) (Rate, bool) {
	matched := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Volume == volume {
			matched = append(matched, e)
		}
	}
	if len(matched) < 2 {
		return Rate{}, false
	}

	slices.SortStableFunc(matched, func(a, b HistoryEntry) int {
		return a.ObservedAt.Compare(b.ObservedAt)
	})

	previous := matched[len(matched)-2]
	latest := matched[len(matched)-1]

	delta := latest.Reading.Used - previous.Reading.Used
	elapsed := latest.ObservedAt.Sub(previous.ObservedAt)
	if elapsed <= 0 || !(delta > 0) {
		return Rate{}, false
	}

	hours := float64(elapsed) / float64(time.Hour)
	rate := delta / hours
	if !isFinite(rate) {
		return Rate{}, false
	}

	return Rate{
		Rate:         rate,
		Unit:         RateUnit(unit),
		Delta:        delta,
		HoursElapsed: hours,
	}, true
}
