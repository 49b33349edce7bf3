package poolprobe

import (
	"github.com/digitalocean/go-libvirt"
	"github.com/stretchr/testify/mock"
)

// MockConn 是 Conn 的 mock 实现
// 用于测试，不需要真实的 libvirt 连接
type MockConn struct {
	mock.Mock
}

var _ Conn = (*MockConn)(nil)

// NewMockConn 创建新的 MockConn
func NewMockConn() *MockConn {
	return &MockConn{}
}

func (m *MockConn) StoragePoolLookupByName(name string) (libvirt.StoragePool, error) {
	args := m.Called(name)
	return args.Get(0).(libvirt.StoragePool), args.Error(1)
}

func (m *MockConn) StoragePoolRefresh(pool libvirt.StoragePool, flags uint32) error {
	args := m.Called(pool, flags)
	return args.Error(0)
}

func (m *MockConn) StoragePoolGetInfo(pool libvirt.StoragePool) (uint8, uint64, uint64, uint64, error) {
	args := m.Called(pool)
	return args.Get(0).(uint8), args.Get(1).(uint64), args.Get(2).(uint64), args.Get(3).(uint64), args.Error(4)
}

func (m *MockConn) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}
