// Package poolprobe 从 libvirt 存储池读取容量，生成快照读数
//
// 存储池的 capacity / available 以字节为单位，按配置的容量单位
// （TB、TiB、GB ...）换算后得到 progress.Reading：
//
//	client, err := poolprobe.New("qemu:///system")
//	reading, err := client.ReadPool(ctx, "transfer-b", "TB")
//	// reading.Total, reading.Free, reading.Used（Used = Total - Free）
package poolprobe
