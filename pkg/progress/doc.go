// Package progress 提供数据迁移进度的纯计算逻辑
//
// 包内所有函数都是纯函数：不做 I/O、不持有状态、可以并发调用。
// 无法计算的结果统一返回 (零值, false) 或占位符 Placeholder，
// 不会返回 error，也不会 panic。
//
// 主要功能：
//   - 根据源/目标两个快照读数计算完成百分比（两种互不混用的策略）
//   - 在手动百分比与推导百分比之间选取生效百分比
//   - 按线性速率推算 ETA，并格式化已用/剩余时间
//   - 根据快照历史中最近两条记录估算传输速率
//
// 使用示例：
//
//	source := progress.Reading{Total: 8, Free: 2.5, Used: 5.5}
//	dest := progress.Reading{Total: 8, Free: 5.25, Used: 2.75}
//
//	derived, ok := progress.PercentFromSnapshots(source, dest) // 50, true
//	pct := progress.EffectivePercent("", derived, ok)          // 50
//
//	eta, ok := progress.EstimateCompletion(start, now, pct)
//	fmt.Println(progress.RemainingDuration(eta, now)) // "2h 0m"
package progress
