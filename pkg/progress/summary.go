package progress

import "time"

// Input 一次进度汇总所需的全部输入
type Input struct {
	Source      Reading
	Destination Reading
	// Policy 为 nil 时使用 RatioPolicy
	Policy        PercentPolicy
	ManualPercent string
	Start         time.Time
	Observed      time.Time
	History       []HistoryEntry
	// Volume 用于估算速率的卷名（通常是目标卷）
	Volume string
	Unit   string
}

// Summary 进度汇总结果，指针字段为 nil 表示无法计算
type Summary struct {
	Policy           string     `json:"policy"`
	DerivedPercent   *float64   `json:"derived_percent"`
	EffectivePercent float64    `json:"effective_percent"`
	ETA              *time.Time `json:"eta"`
	Elapsed          string     `json:"elapsed"`
	Remaining        string     `json:"remaining"`
	Rate             *Rate      `json:"rate"`
	PercentText      string     `json:"percent_text"`
	RateText         string     `json:"rate_text"`
}

// Summarize 对一次观测计算百分比、ETA、时长和速率
func Summarize(in Input) Summary {
	policy := in.Policy
	if policy == nil {
		policy = RatioPolicy
	}

	s := Summary{Policy: policy.Name()}

	derived, derivedOK := policy.Percent(in.Source, in.Destination)
	if derivedOK {
		s.DerivedPercent = &derived
	}
	s.PercentText = FormatPercent(derived, derivedOK)
	s.EffectivePercent = EffectivePercent(in.ManualPercent, derived, derivedOK)

	eta, etaOK := EstimateCompletion(in.Start, in.Observed, s.EffectivePercent)
	if etaOK {
		s.ETA = &eta
		s.Remaining = RemainingDuration(eta, in.Observed)
	} else {
		s.Remaining = Placeholder
	}
	s.Elapsed = ElapsedDuration(in.Start, in.Observed)

	rate, rateOK := RateFromHistory(in.History, in.Volume, in.Unit)
	if rateOK {
		s.Rate = &rate
	}
	s.RateText = FormatRate(rate, rateOK)

	return s
}
