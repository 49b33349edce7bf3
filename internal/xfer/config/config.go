// Package config 提供服务端配置
//
// 配置来源（后者覆盖前者）：
//  1. 内置默认值
//  2. 环境变量
//  3. XFER_CONFIG 指向的 YAML 文件
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jimyag/xfer/pkg/poolprobe"
	"github.com/jimyag/xfer/pkg/progress"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Address 是 HTTP 服务监听地址
	// 可以通过环境变量 XFER_ADDRESS 配置，默认 0.0.0.0:7777
	Address string `yaml:"address"`

	// DataDir 是数据目录，SQLite 数据库存放在这里
	// 可以通过环境变量 XFER_DATA_DIR 配置
	// 默认：~/.local/share/xfer
	DataDir string `yaml:"data_dir"`

	// DBPath 数据库文件路径，默认 DataDir/xfer.db
	DBPath string `yaml:"db_path"`

	// LogLevel 日志级别：debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Unit 容量单位，读数与速率都使用这个单位，例如 TB、TiB、GB
	Unit string `yaml:"unit"`

	// PercentPolicy 完成百分比计算策略：ratio 或 capacity-delta
	PercentPolicy string `yaml:"percent_policy"`

	// HistoryLimit 会话详情中返回的最近历史记录条数
	HistoryLimit int `yaml:"history_limit"`

	// SourceName 源快照名称，DestinationName 目标快照名称
	SourceName      string `yaml:"source_name"`
	DestinationName string `yaml:"destination_name"`

	// LibvirtURI 是 libvirt 连接 URI，只在配置了 Pools 时使用
	// 可以通过环境变量 LIBVIRT_URI 或 XFER_LIBVIRT_URI 配置
	LibvirtURI string `yaml:"libvirt_uri"`

	// Pools 快照名称到 libvirt 存储池名称的映射，只能在 YAML 中配置
	Pools map[string]string `yaml:"pools"`

	// Seed 首次启动时创建的默认会话
	Seed Seed `yaml:"seed"`
}

// Seed 默认会话的初始数据
type Seed struct {
	SessionName string         `yaml:"session_name"`
	Snapshots   []SeedSnapshot `yaml:"snapshots"`
	Jobs        []SeedJob      `yaml:"jobs"`
}

// SeedSnapshot 初始快照读数
type SeedSnapshot struct {
	Name  string  `yaml:"name"`
	Total float64 `yaml:"total"`
	Free  float64 `yaml:"free"`
	Used  float64 `yaml:"used"`
}

// SeedJob 初始任务
type SeedJob struct {
	Name      string `yaml:"name"`
	StartTime string `yaml:"start_time"`
}

func New() (*Config, error) {
	cfg := &Config{
		Address:         getEnv("XFER_ADDRESS", "0.0.0.0:7777"),
		DataDir:         getDataDir(),
		LogLevel:        getEnv("XFER_LOG_LEVEL", "info"),
		Unit:            getEnv("XFER_UNIT", progress.DefaultUnit),
		PercentPolicy:   getEnv("XFER_PERCENT_POLICY", progress.PolicyRatio),
		HistoryLimit:    getEnvInt("XFER_HISTORY_LIMIT", 10),
		SourceName:      getEnv("XFER_SOURCE_NAME", "A"),
		DestinationName: getEnv("XFER_DESTINATION_NAME", "B"),
		LibvirtURI:      getLibvirtURI(),
		Seed:            defaultSeed(),
	}

	if path := os.Getenv("XFER_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "xfer.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 读取 YAML 配置文件并覆盖已有字段
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if _, err := progress.ParsePercentPolicy(c.PercentPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := poolprobe.UnitBytes(c.Unit); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit))
	}
	if c.SourceName == "" || c.DestinationName == "" {
		errs = append(errs, errors.New("source and destination names are required"))
	} else if c.SourceName == c.DestinationName {
		errs = append(errs, fmt.Errorf("source and destination must differ, both are %q", c.SourceName))
	}
	for _, s := range c.Seed.Snapshots {
		if s.Total < 0 || s.Free < 0 || s.Used < 0 {
			errs = append(errs, fmt.Errorf("seed snapshot %q has negative capacity", s.Name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PolicyOrDefault 返回配置的百分比策略，配置非法时返回默认策略
func (c *Config) PolicyOrDefault() progress.PercentPolicy {
	p, err := progress.ParsePercentPolicy(c.PercentPolicy)
	if err != nil {
		return progress.RatioPolicy
	}
	return p
}

// defaultSeed 8TB 源盘已用 5.5TB，目标盘已用 0.2TB
func defaultSeed() Seed {
	return Seed{
		SessionName: "Default Session",
		Snapshots: []SeedSnapshot{
			{Name: "A", Total: 8.0, Free: 2.5, Used: 5.5},
			{Name: "B", Total: 8.0, Free: 7.8, Used: 0.2},
		},
		Jobs: []SeedJob{
			{Name: "Backup job", StartTime: "17:55"},
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// 非法值交给 Validate 报错
		return -1
	}
	return n
}

// getLibvirtURI 获取 libvirt URI，优先使用环境变量
func getLibvirtURI() string {
	if uri := os.Getenv("LIBVIRT_URI"); uri != "" {
		return uri
	}
	if uri := os.Getenv("XFER_LIBVIRT_URI"); uri != "" {
		return uri
	}
	return "qemu:///system"
}

// getDataDir 获取数据目录，优先使用环境变量
func getDataDir() string {
	if dir := os.Getenv("XFER_DATA_DIR"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "xfer")
	}
	return filepath.Join(".", "data")
}
