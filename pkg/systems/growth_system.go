package systems

import (
	"log"
	"time"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/types"
)

// GrowthSystem 以绝对时间推进所有植物的生长与缺水模拟。
//
// 与按帧累加 deltaTime 的系统不同，本系统采用追帧模型：每次 Update
// 把每株植物从它自己的 LastSimulated 一步推进到 now。因此应用离线
// 数小时后的首次调用就能一次性补齐全部生长量，不需要重放中间帧。
type GrowthSystem struct {
	world *game.GardenWorld
}

// NewGrowthSystem 创建植物生长系统
// 参数:
//   - world: 花园世界上下文（提供实体管理器、类型目录与时钟）
//
// 返回:
//   - *GrowthSystem: 生长系统实例
func NewGrowthSystem(world *game.GardenWorld) *GrowthSystem {
	return &GrowthSystem{world: world}
}

// Update 将所有植物的模拟状态推进到 now
// 参数:
//   - now: 目标时刻（由调用方的时钟提供，便于测试）
//
// 返回:
//   - bool: 任意植物的可见状态（进度或健康）是否发生变化
//
// 单株植物的推进顺序固定：
//  1. elapsed = now - LastSimulated，elapsed <= 0 时整株跳过
//     （时钟回拨防御，时间戳保持原值不变）；
//  2. 健康且未长满时按线性速率累加进度，并钳制在 1.0；
//  3. 无条件把 LastSimulated 推进到 now；
//  4. 健康植物若 now - LastWatered 严格超过缺水阈值，则转为缺水。
//
// 缺水植物停止生长，也永远不会自行恢复，只能由 Water 救活。
// 注意第 4 步只在模拟推进时评估：连续循环停止且空闲轮询间隔较长时，
// 植物可能在真实时间已超阈值后仍短暂显示健康，这个滞后上界等于
// 空闲轮询间隔，属于既定的省电取舍。
func (s *GrowthSystem) Update(now time.Time) bool {
	em := s.world.EntityManager()
	catalog := s.world.Catalog()
	changed := false

	for _, id := range ecs.GetEntitiesWith2[*components.GardenObjectComponent, *components.PlantStateComponent](em) {
		obj, ok := ecs.GetComponent[*components.GardenObjectComponent](em, id)
		if !ok {
			continue
		}
		state, ok := ecs.GetComponent[*components.PlantStateComponent](em, id)
		if !ok {
			continue
		}

		def, ok := catalog.Get(obj.TypeID)
		if !ok {
			// 目录更新后可能留下孤儿类型：保留现状，等待玩家移除
			log.Printf("[GrowthSystem] Unknown object type %q for entity %d, skipping", obj.TypeID, id)
			continue
		}

		elapsed := now.Sub(state.LastSimulated)
		if elapsed <= 0 {
			continue
		}

		if state.Health == types.HealthHealthy && state.GrowthProgress < 1.0 {
			next := state.GrowthProgress + elapsed.Seconds()*def.GrowthRatePerSecond
			if next > 1.0 {
				next = 1.0
			}
			if next != state.GrowthProgress {
				state.GrowthProgress = next
				changed = true
			}
		}

		state.LastSimulated = now

		if state.Health == types.HealthHealthy && now.Sub(state.LastWatered).Seconds() > def.ThirstThresholdSeconds {
			state.Health = types.HealthNeedsWater
			changed = true
			s.world.MarkChanged()
			log.Printf("[GrowthSystem] Plant %q at (%d,%d) needs water", obj.TypeID, obj.OriginRow, obj.OriginCol)
		}
	}

	return changed
}
