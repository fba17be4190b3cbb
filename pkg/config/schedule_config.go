package config

import "time"

// 渲染调度与自动保存配置

const (
	// GrowthPollInterval 生长轮询间隔
	// 调度器空闲时，每隔此间隔检查一次是否有植物仍在生长；
	// 有则请求一帧，让生长动画以低帧率推进
	GrowthPollInterval = 10 * time.Second

	// IdleRefreshInterval 空闲刷新间隔
	// 没有任何植物生长且无交互时，仅为了推进昼夜光照
	// 每隔此间隔渲染一帧。缺水状态最多延迟此间隔才被发现，
	// 这是接受的空闲语义，不做额外补偿
	IdleRefreshInterval = 5 * time.Minute

	// AutosaveInterval 自动保存间隔
	// 放置/移除/浇水这类修改即时落盘；纯生长进度不设修改标记，
	// 由该间隔的周期性保存兜底
	AutosaveInterval = 60 * time.Second
)
