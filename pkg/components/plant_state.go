package components

import (
	"time"

	"github.com/decker502/garden/pkg/types"
)

// PlantStateComponent 植物的模拟状态
// 只有植物实体携带此组件，装饰物没有
type PlantStateComponent struct {
	// GrowthProgress 生长进度 [0.0, 1.0]，1.0 表示完全长成
	GrowthProgress float64
	// Health 健康状态（健康 / 缺水）
	// 缺水后生长暂停，且不会自动恢复，必须浇水
	Health types.PlantHealth

	// LastSimulated 上次模拟推进到的时刻
	// 重新打开应用时据此一次性补算离线期间的生长
	LastSimulated time.Time
	// LastWatered 上次浇水时刻，缺水判定的基准
	LastWatered time.Time
}

// IsFullyGrown 判断植物是否已完全长成
func (p *PlantStateComponent) IsFullyGrown() bool {
	return p.GrowthProgress >= 1.0
}

// IsGrowing 判断植物是否仍在生长（未长满且不缺水）
// 调度器据此决定空闲时是否还需要生长轮询帧
func (p *PlantStateComponent) IsGrowing() bool {
	return p.GrowthProgress < 1.0 && p.Health == types.HealthHealthy
}
