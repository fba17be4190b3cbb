package game

import "time"

// Clock 提供当前时间
//
// 模拟、调度和昼夜光照全部通过 Clock 取当前时刻，
// 不直接调用 time.Now()，这样测试可以注入手动时钟、
// 自由推进时间而无需真实等待
type Clock interface {
	Now() time.Time
}

// SystemClock 真实墙上时钟
type SystemClock struct{}

// Now 返回系统当前时间
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock 手动推进的时钟，供测试和验证工具使用
type ManualClock struct {
	current time.Time
}

// NewManualClock 创建固定在 start 时刻的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start}
}

// Now 返回手动时钟的当前时刻
func (c *ManualClock) Now() time.Time {
	return c.current
}

// Set 将时钟拨到指定时刻
func (c *ManualClock) Set(t time.Time) {
	c.current = t
}

// Advance 将时钟向前推进 d
func (c *ManualClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
