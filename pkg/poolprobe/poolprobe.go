package poolprobe

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/digitalocean/go-libvirt"
	"github.com/dustin/go-humanize"
	"github.com/jimyag/xfer/pkg/progress"
)

// Conn 读取存储池容量需要的 libvirt 调用，*libvirt.Libvirt 实现了该接口
type Conn interface {
	StoragePoolLookupByName(name string) (libvirt.StoragePool, error)
	StoragePoolRefresh(pool libvirt.StoragePool, flags uint32) error
	StoragePoolGetInfo(pool libvirt.StoragePool) (state uint8, capacity uint64, allocation uint64, available uint64, err error)
	Disconnect() error
}

var _ Conn = (*libvirt.Libvirt)(nil)

// Client 存储池容量读取客户端，可并发使用
type Client struct {
	mu   sync.Mutex
	conn Conn
}

// New 连接 libvirt，uri 例如 qemu:///system、qemu+ssh://user@host/system
func New(uri string) (*Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse libvirt uri %q: %w", uri, err)
	}
	l, err := libvirt.ConnectToURI(u)
	if err != nil {
		return nil, fmt.Errorf("connect to libvirt %s: %w", uri, err)
	}
	return NewWithConn(l), nil
}

// NewWithConn 使用已有连接创建客户端
func NewWithConn(conn Conn) *Client {
	return &Client{conn: conn}
}

// ReadPool 刷新存储池并读取容量，换算为 unit 单位的读数
func (c *Client) ReadPool(ctx context.Context, pool, unit string) (progress.Reading, error) {
	factor, err := UnitBytes(unit)
	if err != nil {
		return progress.Reading{}, err
	}
	if err := ctx.Err(); err != nil {
		return progress.Reading{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.conn.StoragePoolLookupByName(pool)
	if err != nil {
		return progress.Reading{}, fmt.Errorf("lookup storage pool %s: %w", pool, err)
	}

	// 刷新后 available 才能反映最新的写入
	if err := c.conn.StoragePoolRefresh(p, 0); err != nil {
		return progress.Reading{}, fmt.Errorf("refresh storage pool %s: %w", pool, err)
	}

	_, capacity, _, available, err := c.conn.StoragePoolGetInfo(p)
	if err != nil {
		return progress.Reading{}, fmt.Errorf("get storage pool %s info: %w", pool, err)
	}
	if available > capacity {
		available = capacity
	}

	total := float64(capacity) / factor
	free := float64(available) / factor
	return progress.Reading{
		Total: total,
		Free:  free,
		Used:  total - free,
	}, nil
}

// Close 断开 libvirt 连接
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Disconnect()
}

// UnitBytes 返回一个容量单位对应的字节数，例如 TB=1e12、TiB=2^40
func UnitBytes(unit string) (float64, error) {
	if unit == "" {
		unit = progress.DefaultUnit
	}
	n, err := humanize.ParseBytes("1 " + unit)
	if err != nil {
		return 0, fmt.Errorf("unknown capacity unit %q: %w", unit, err)
	}
	return float64(n), nil
}
