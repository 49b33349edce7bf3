package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// 各类资源 ID 的前缀
const (
	PrefixSession  = "ts"
	PrefixSnapshot = "snap"
	PrefixHistory  = "hist"
	PrefixJob      = "job"
	PrefixRequest  = "req"
)

// Generator 递增 ID 生成器，可并发使用
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = New()
	})
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		// 拿不到私有 IP 作为机器 ID 时（容器、无网卡的测试环境）固定机器 ID
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			MachineID: func() (uint16, error) { return 1, nil },
		})
	}

	return &Generator{
		sf: sf,
	}
}

// generateIDWithPrefix 生成带前缀的 ID
func (g *Generator) generateIDWithPrefix(prefix string) (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("generate %s ID: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d", prefix, id), nil
}

// GenerateSessionID 生成迁移会话 ID（格式：ts-{递增 ID}）
func (g *Generator) GenerateSessionID() (string, error) {
	return g.generateIDWithPrefix(PrefixSession)
}

// GenerateSnapshotID 生成快照 ID（格式：snap-{递增 ID}）
func (g *Generator) GenerateSnapshotID() (string, error) {
	return g.generateIDWithPrefix(PrefixSnapshot)
}

// GenerateHistoryID 生成历史记录 ID（格式：hist-{递增 ID}）
func (g *Generator) GenerateHistoryID() (string, error) {
	return g.generateIDWithPrefix(PrefixHistory)
}

// GenerateJobID 生成任务 ID（格式：job-{递增 ID}）
func (g *Generator) GenerateJobID() (string, error) {
	return g.generateIDWithPrefix(PrefixJob)
}

// GenerateRequestID 生成请求 ID（格式：req-{递增 ID}）
func (g *Generator) GenerateRequestID() (string, error) {
	return g.generateIDWithPrefix(PrefixRequest)
}

// GenerateID 生成通用递增 ID
func (g *Generator) GenerateID() (uint64, error) {
	return g.sf.NextID()
}

// GenerateSessionID 使用默认生成器生成迁移会话 ID
func GenerateSessionID() (string, error) {
	return DefaultGenerator().GenerateSessionID()
}

// GenerateJobID 使用默认生成器生成任务 ID
func GenerateJobID() (string, error) {
	return DefaultGenerator().GenerateJobID()
}

// GenerateRequestID 使用默认生成器生成请求 ID
func GenerateRequestID() (string, error) {
	return DefaultGenerator().GenerateRequestID()
}
