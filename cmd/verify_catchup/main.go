// verify_catchup 离线追帧行为的命令行验证
//
// 不开窗口，直接用手动时钟驱动模拟：种植 → 序列化 → 拨快时钟 →
// 恢复 → 跑一次生长帧，核对进度入账、缺水翻转和"只入账一次"。
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/systems"
	"github.com/decker502/garden/pkg/types"
)

var failures int

// check 打印单项核对结果
func check(name string, ok bool, detail string) {
	if ok {
		fmt.Printf("✅ %s\n", name)
	} else {
		fmt.Printf("❌ %s（%s）\n", name, detail)
		failures++
	}
}

// plantState 取指定格子上植物的状态组件
func plantState(world *game.GardenWorld, coord types.GridCoord) *components.PlantStateComponent {
	id, ok := world.ResolveObjectAt(coord)
	if !ok {
		log.Fatalf("no object at (%d, %d)", coord.Row, coord.Col)
	}
	state, ok := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), id)
	if !ok {
		log.Fatalf("object at (%d, %d) has no plant state", coord.Row, coord.Col)
	}
	return state
}

func main() {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := game.NewManualClock(start)
	world := game.NewGardenWorld(config.DefaultObjectCatalog(), clock)
	growth := systems.NewGrowthSystem(world)

	fernAt := types.GridCoord{Row: 3, Col: 3}
	bushAt := types.GridCoord{Row: 6, Col: 6}

	log.Printf("=== 种植：fern(0.004/s, 缺水阈值 120s) + bush(0.002/s, 缺水阈值 180s) ===")
	if _, err := world.Place(fernAt, "fern"); err != nil {
		log.Fatalf("failed to place fern: %v", err)
	}
	if _, err := world.Place(bushAt, "bush"); err != nil {
		log.Fatalf("failed to place bush: %v", err)
	}
	growth.Update(clock.Now())

	log.Printf("=== 序列化存档，模拟关闭应用 150 秒 ===")
	doc := world.Serialize()
	clock.Advance(150 * time.Second)
	world.Clear()
	world.Restore(doc)

	fern := plantState(world, fernAt)
	check("恢复后、模拟前进度为 0（恢复本身不推进模拟）",
		fern.GrowthProgress == 0,
		fmt.Sprintf("progress=%f", fern.GrowthProgress))

	log.Printf("=== 追帧：一次生长帧入账全部离线时长 ===")
	growth.Update(clock.Now())

	fern = plantState(world, fernAt)
	bush := plantState(world, bushAt)

	check("fern 进度 = 150s × 0.004 = 0.60",
		math.Abs(fern.GrowthProgress-0.60) < 1e-9,
		fmt.Sprintf("progress=%f", fern.GrowthProgress))
	check("fern 离线 150s > 120s，追帧后缺水",
		fern.Health == types.HealthNeedsWater,
		fmt.Sprintf("health=%v", fern.Health))
	check("bush 进度 = 150s × 0.002 = 0.30",
		math.Abs(bush.GrowthProgress-0.30) < 1e-9,
		fmt.Sprintf("progress=%f", bush.GrowthProgress))
	check("bush 离线 150s < 180s，保持健康",
		bush.Health == types.HealthHealthy,
		fmt.Sprintf("health=%v", bush.Health))

	log.Printf("=== 同一时刻再跑一帧：离线时长不得重复入账 ===")
	growth.Update(clock.Now())
	fern = plantState(world, fernAt)
	check("fern 进度不变（0.60）",
		math.Abs(fern.GrowthProgress-0.60) < 1e-9,
		fmt.Sprintf("progress=%f", fern.GrowthProgress))

	log.Printf("=== 给 fern 浇水，再前进 100 秒 ===")
	if !world.Water(fernAt) {
		log.Fatalf("failed to water fern")
	}
	clock.Advance(100 * time.Second)
	growth.Update(clock.Now())

	fern = plantState(world, fernAt)
	bush = plantState(world, bushAt)
	check("fern 进度封顶 1.0（0.60 + 100s × 0.004）",
		fern.GrowthProgress == 1.0,
		fmt.Sprintf("progress=%f", fern.GrowthProgress))
	check("bush 本帧先入账生长（0.50）再翻缺水",
		math.Abs(bush.GrowthProgress-0.50) < 1e-9 && bush.Health == types.HealthNeedsWater,
		fmt.Sprintf("progress=%f health=%v", bush.GrowthProgress, bush.Health))

	log.Printf("=== 缺水植物停止生长：再前进 50 秒 ===")
	clock.Advance(50 * time.Second)
	growth.Update(clock.Now())
	bush = plantState(world, bushAt)
	check("bush 缺水期间进度冻结（0.50）",
		math.Abs(bush.GrowthProgress-0.50) < 1e-9,
		fmt.Sprintf("progress=%f", bush.GrowthProgress))

	if failures > 0 {
		fmt.Printf("\n❌ %d 项核对未通过\n", failures)
		os.Exit(1)
	}
	fmt.Println("\n✅ 离线追帧行为全部核对通过")
}
