package systems

import (
	"math"
	"testing"
	"time"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/types"
)

// growthTestCatalogYAML 测试专用目录：速率与阈值取便于验算的值
const growthTestCatalogYAML = `objects:
  - id: quickfern
    name: 速生蕨
    category: plant
    growthRatePerSecond: 0.016666666666666666
    thirstThresholdSeconds: 3600
  - id: slowmoss
    name: 慢生苔
    category: plant
    growthRatePerSecond: 0.001
    thirstThresholdSeconds: 3600
  - id: thirstybud
    name: 易渴芽
    category: plant
    growthRatePerSecond: 0.005
    thirstThresholdSeconds: 60
  - id: gnome
    name: 花园侏儒
    category: decor
`

// newGrowthTestWorld 构建使用手动时钟的测试世界，起始时刻固定
func newGrowthTestWorld(t *testing.T) (*game.GardenWorld, *game.ManualClock) {
	t.Helper()
	catalog, err := config.LoadObjectCatalog([]byte(growthTestCatalogYAML))
	if err != nil {
		t.Fatalf("failed to load test catalog: %v", err)
	}
	clock := game.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return game.NewGardenWorld(catalog, clock), clock
}

func plantState(t *testing.T, w *game.GardenWorld, id ecs.EntityID) *components.PlantStateComponent {
	t.Helper()
	state, ok := ecs.GetComponent[*components.PlantStateComponent](w.EntityManager(), id)
	if !ok {
		t.Fatalf("entity %d has no plant state", id)
	}
	return state
}

// TestGrowthCatchUpSingleStep 验证追帧式生长：
// 速生蕨速率为 1/60 每秒，60 秒长满
func TestGrowthCatchUpSingleStep(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	id, err := world.Place(types.GridCoord{Row: 0, Col: 0}, "quickfern")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// t=0：初始进度为 0
	if got := plantState(t, world, id).GrowthProgress; got != 0 {
		t.Errorf("Expected initial progress 0, got %f", got)
	}

	// t=30s：单次推进应到约 0.5
	clock.Advance(30 * time.Second)
	system.Update(clock.Now())
	if got := plantState(t, world, id).GrowthProgress; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected progress 0.5 after 30s, got %f", got)
	}

	// t=90s：超过 60 秒后钳制在 1.0
	clock.Advance(60 * time.Second)
	system.Update(clock.Now())
	if got := plantState(t, world, id).GrowthProgress; got != 1.0 {
		t.Errorf("Expected progress clamped to 1.0 after 90s, got %f", got)
	}
}

// TestGrowthThirstCatchUp 验证离线口渴判定：
// 阈值 60 秒的植物在 90 秒后的首次追帧中直接进入缺水状态
func TestGrowthThirstCatchUp(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	id, err := world.Place(types.GridCoord{Row: 1, Col: 1}, "thirstybud")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// 无任何中间帧，直接推进 90 秒
	clock.Advance(90 * time.Second)
	if !system.Update(clock.Now()) {
		t.Error("Update should report a change")
	}

	state := plantState(t, world, id)
	if state.Health != types.HealthNeedsWater {
		t.Errorf("Expected needs_water after 90s, got %v", state.Health)
	}
	// 缺水判定在生长累加之后执行，这 90 秒的生长不丢失
	if math.Abs(state.GrowthProgress-0.45) > 1e-9 {
		t.Errorf("Expected progress 0.45 (90s * 0.005), got %f", state.GrowthProgress)
	}
	if !state.LastSimulated.Equal(clock.Now()) {
		t.Errorf("LastSimulated should advance to now, got %v", state.LastSimulated)
	}
}

// TestGrowthTimeAdditivity 验证时间可加性：
// 一步推进 300 秒与 30 步各推进 10 秒结果一致（健康且未饱和）
func TestGrowthTimeAdditivity(t *testing.T) {
	worldA, clockA := newGrowthTestWorld(t)
	worldB, clockB := newGrowthTestWorld(t)
	systemA := NewGrowthSystem(worldA)
	systemB := NewGrowthSystem(worldB)

	idA, err := worldA.Place(types.GridCoord{Row: 2, Col: 2}, "slowmoss")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	idB, err := worldB.Place(types.GridCoord{Row: 2, Col: 2}, "slowmoss")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// 路径 A：一步 300 秒
	clockA.Advance(300 * time.Second)
	systemA.Update(clockA.Now())

	// 路径 B：30 步，每步 10 秒
	for i := 0; i < 30; i++ {
		clockB.Advance(10 * time.Second)
		systemB.Update(clockB.Now())
	}

	progressA := plantState(t, worldA, idA).GrowthProgress
	progressB := plantState(t, worldB, idB).GrowthProgress
	if math.Abs(progressA-progressB) > 1e-9 {
		t.Errorf("Additivity violated: one-step=%f, 30-steps=%f", progressA, progressB)
	}
	if math.Abs(progressA-0.3) > 1e-9 {
		t.Errorf("Expected progress 0.3 after 300s, got %f", progressA)
	}
}

// TestGrowthThirstMonotonicity 验证缺水单调性：
// 进入缺水后无论推进多久都不会自愈，进度也保持冻结
func TestGrowthThirstMonotonicity(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	id, err := world.Place(types.GridCoord{Row: 3, Col: 3}, "thirstybud")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	clock.Advance(120 * time.Second)
	system.Update(clock.Now())
	state := plantState(t, world, id)
	if state.Health != types.HealthNeedsWater {
		t.Fatalf("Expected needs_water, got %v", state.Health)
	}
	frozen := state.GrowthProgress

	// 继续推进很久，状态与进度都不应变化
	for i := 0; i < 5; i++ {
		clock.Advance(time.Hour)
		if system.Update(clock.Now()) {
			t.Error("Update on a thirsty plant should report no change")
		}
	}
	state = plantState(t, world, id)
	if state.Health != types.HealthNeedsWater {
		t.Errorf("Thirsty plant must not self-heal, got %v", state.Health)
	}
	if state.GrowthProgress != frozen {
		t.Errorf("Thirsty plant must not grow: was %f, now %f", frozen, state.GrowthProgress)
	}

	// 浇水救活后恢复生长
	if !world.Water(types.GridCoord{Row: 3, Col: 3}) {
		t.Fatal("Water should succeed on a thirsty plant")
	}
	clock.Advance(10 * time.Second)
	system.Update(clock.Now())
	state = plantState(t, world, id)
	if state.Health != types.HealthHealthy {
		t.Errorf("Expected healthy after watering, got %v", state.Health)
	}
	if math.Abs(state.GrowthProgress-(frozen+10*0.005)) > 1e-9 {
		t.Errorf("Expected growth to resume after watering, got %f", state.GrowthProgress)
	}
}

// TestGrowthClockSkewGuard 验证时钟回拨防御：
// now 早于 LastSimulated 时整株跳过，时间戳不回退
func TestGrowthClockSkewGuard(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	id, err := world.Place(types.GridCoord{Row: 4, Col: 4}, "slowmoss")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	placedAt := clock.Now()

	// 时钟回拨 1 小时
	clock.Set(placedAt.Add(-time.Hour))
	if system.Update(clock.Now()) {
		t.Error("Update with a rewound clock should report no change")
	}
	state := plantState(t, world, id)
	if state.GrowthProgress != 0 {
		t.Errorf("Progress must not change on rewound clock, got %f", state.GrowthProgress)
	}
	if !state.LastSimulated.Equal(placedAt) {
		t.Errorf("LastSimulated must not rewind: want %v, got %v", placedAt, state.LastSimulated)
	}

	// 时钟恢复后从原时间戳继续，不丢生长量
	clock.Set(placedAt.Add(20 * time.Second))
	system.Update(clock.Now())
	state = plantState(t, world, id)
	if math.Abs(state.GrowthProgress-20*0.001) > 1e-9 {
		t.Errorf("Expected progress 0.02 after clock recovery, got %f", state.GrowthProgress)
	}
}

// TestGrowthIgnoresDecor 验证装饰物不参与生长模拟
func TestGrowthIgnoresDecor(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	id, err := world.Place(types.GridCoord{Row: 5, Col: 5}, "gnome")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	clock.Advance(time.Hour)
	if system.Update(clock.Now()) {
		t.Error("Update with only decor should report no change")
	}
	if _, ok := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), id); ok {
		t.Error("Decor must not carry plant state")
	}
}

// TestGrowthNoChangeWhenFullyGrown 验证长满且健康的植物不再产生变化
func TestGrowthNoChangeWhenFullyGrown(t *testing.T) {
	world, clock := newGrowthTestWorld(t)
	system := NewGrowthSystem(world)

	if _, err := world.Place(types.GridCoord{Row: 0, Col: 0}, "quickfern"); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	clock.Advance(60 * time.Second)
	system.Update(clock.Now())

	// 已长满且未到缺水阈值：继续推进不应报告变化
	clock.Advance(60 * time.Second)
	if system.Update(clock.Now()) {
		t.Error("Update on a fully grown healthy plant should report no change")
	}
}
