package game

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/types"
)

// newTestWorld 创建带手动时钟的测试世界
func newTestWorld(t *testing.T) (*GardenWorld, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	world := NewGardenWorld(config.DefaultObjectCatalog(), clock)
	return world, clock
}

func TestPlaceSingleCell(t *testing.T) {
	world, _ := newTestWorld(t)

	coord := types.GridCoord{Row: 4, Col: 5}
	id, err := world.Place(coord, "fern")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if id == ecs.InvalidEntity {
		t.Fatal("Place should return a valid entity ID")
	}

	// 原点格标记正确
	cell := world.Grid().Cells[4][5]
	if cell.Kind != types.CellOrigin || cell.ID != id {
		t.Errorf("origin cell = {%v, %d}, want {origin, %d}", cell.Kind, cell.ID, id)
	}

	// 解析返回同一实体
	resolved, ok := world.ResolveObjectAt(coord)
	if !ok || resolved != id {
		t.Errorf("ResolveObjectAt = (%d, %v), want (%d, true)", resolved, ok, id)
	}

	// 已占用区域不再空闲
	if world.IsAreaFree(coord, types.Footprint{Rows: 1, Cols: 1}) {
		t.Error("occupied cell should not be free")
	}

	// 植物初始状态
	plant, ok := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), id)
	if !ok {
		t.Fatal("plant entity should carry plant state")
	}
	if plant.GrowthProgress != 0 || plant.Health != types.HealthHealthy {
		t.Errorf("new plant state = {%f, %v}, want {0, healthy}", plant.GrowthProgress, plant.Health)
	}
}

// TestPlaceMultiCell 2x2 灌木放置在 (2,3)：
// 原点格 + 三个别名格，全部解析到同一实体
func TestPlaceMultiCell(t *testing.T) {
	world, _ := newTestWorld(t)

	origin := types.GridCoord{Row: 2, Col: 3}
	id, err := world.Place(origin, "bush")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	covered := []struct {
		row, col int
		kind     types.CellKind
	}{
		{2, 3, types.CellOrigin},
		{2, 4, types.CellAlias},
		{3, 3, types.CellAlias},
		{3, 4, types.CellAlias},
	}
	grid := world.Grid()
	for _, c := range covered {
		cell := grid.Cells[c.row][c.col]
		if cell.Kind != c.kind || cell.ID != id {
			t.Errorf("cell (%d, %d) = {%v, %d}, want {%v, %d}", c.row, c.col, cell.Kind, cell.ID, c.kind, id)
		}
		resolved, ok := world.ResolveObjectAt(types.GridCoord{Row: c.row, Col: c.col})
		if !ok || resolved != id {
			t.Errorf("ResolveObjectAt(%d, %d) = (%d, %v), want (%d, true)", c.row, c.col, resolved, ok, id)
		}
	}

	// 未覆盖的邻格不受影响
	if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 2, Col: 5}); ok {
		t.Error("cell (2, 5) should be empty")
	}
	if !world.IsAreaFree(types.GridCoord{Row: 4, Col: 3}, types.Footprint{Rows: 1, Cols: 1}) {
		t.Error("cell (4, 3) below the bush should be free")
	}
}

func TestPlaceRejections(t *testing.T) {
	world, _ := newTestWorld(t)

	if _, err := world.Place(types.GridCoord{Row: 5, Col: 5}, "bush"); err != nil {
		t.Fatalf("setup placement failed: %v", err)
	}

	tests := []struct {
		name    string
		coord   types.GridCoord
		typeID  string
		wantErr error
	}{
		{"未知类型", types.GridCoord{Row: 0, Col: 0}, "dragon_tree", ErrUnknownType},
		{"完全重叠", types.GridCoord{Row: 5, Col: 5}, "fern", ErrAreaOccupied},
		{"部分重叠", types.GridCoord{Row: 4, Col: 4}, "bush", ErrAreaOccupied},
		{"别名格重叠", types.GridCoord{Row: 6, Col: 6}, "fern", ErrAreaOccupied},
		{"负数坐标", types.GridCoord{Row: -1, Col: 0}, "fern", ErrAreaOccupied},
		{"越界坐标", types.GridCoord{Row: config.GridDivisions, Col: 0}, "fern", ErrAreaOccupied},
		{"占地伸出边界", types.GridCoord{Row: config.GridDivisions - 1, Col: config.GridDivisions - 1}, "bush", ErrAreaOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := world.Place(tt.coord, tt.typeID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Place error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// 失败的放置不会创建实体
	if got := world.ObjectCount(); got != 1 {
		t.Errorf("object count = %d, want 1 (failed placements must not leak entities)", got)
	}
}

// TestFootprintExclusivity 占地互斥：任何非空格子恰好归属一个对象
func TestFootprintExclusivity(t *testing.T) {
	world, _ := newTestWorld(t)

	placements := []struct {
		coord  types.GridCoord
		typeID string
	}{
		{types.GridCoord{Row: 0, Col: 0}, "bush"},
		{types.GridCoord{Row: 0, Col: 2}, "fern"},
		{types.GridCoord{Row: 3, Col: 0}, "hedge"},
		{types.GridCoord{Row: 5, Col: 5}, "fountain"},
		{types.GridCoord{Row: 11, Col: 11}, "gnome"},
	}

	expectedCells := 0
	owners := make(map[ecs.EntityID]int)
	for _, p := range placements {
		id, err := world.Place(p.coord, p.typeID)
		if err != nil {
			t.Fatalf("Place(%v, %s) failed: %v", p.coord, p.typeID, err)
		}
		def, _ := world.Catalog().Get(p.typeID)
		expectedCells += def.Footprint().CellCount()
		owners[id] = 0
	}

	// 遍历整个网格：非空格子必须都能解析，且归属唯一
	occupied := 0
	for row := 0; row < config.GridDivisions; row++ {
		for col := 0; col < config.GridDivisions; col++ {
			coord := types.GridCoord{Row: row, Col: col}
			id, ok := world.ResolveObjectAt(coord)
			if world.Grid().Cells[row][col].Kind == types.CellEmpty {
				if ok {
					t.Errorf("empty cell (%d, %d) resolved to entity %d", row, col, id)
				}
				continue
			}
			if !ok {
				t.Errorf("occupied cell (%d, %d) failed to resolve", row, col)
				continue
			}
			occupied++
			owners[id]++

			// 被占用的格子上放任何东西都必须失败
			if _, err := world.Place(coord, "gnome"); !errors.Is(err, ErrAreaOccupied) {
				t.Errorf("placing on occupied cell (%d, %d) should fail with ErrAreaOccupied, got %v", row, col, err)
			}
		}
	}

	if occupied != expectedCells {
		t.Errorf("occupied cell count = %d, want %d", occupied, expectedCells)
	}
	for id, count := range owners {
		if count == 0 {
			t.Errorf("entity %d owns no cells", id)
		}
	}
}

func TestRemoveByAliasCell(t *testing.T) {
	world, _ := newTestWorld(t)

	if _, err := world.Place(types.GridCoord{Row: 2, Col: 3}, "bush"); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// 通过别名格移除，整个占地都应被清空
	if !world.Remove(types.GridCoord{Row: 3, Col: 4}) {
		t.Fatal("Remove via alias cell should succeed")
	}

	grid := world.Grid()
	for _, c := range [][2]int{{2, 3}, {2, 4}, {3, 3}, {3, 4}} {
		if grid.Cells[c[0]][c[1]].Kind != types.CellEmpty {
			t.Errorf("cell (%d, %d) should be empty after removal", c[0], c[1])
		}
	}

	world.EntityManager().RemoveMarkedEntities()
	if got := world.ObjectCount(); got != 0 {
		t.Errorf("object count = %d, want 0", got)
	}

	// 再次移除是无操作
	if world.Remove(types.GridCoord{Row: 2, Col: 3}) {
		t.Error("removing an empty cell should be a no-op")
	}
}

func TestRemoveEmptyCellNoOp(t *testing.T) {
	world, _ := newTestWorld(t)

	if world.Remove(types.GridCoord{Row: 0, Col: 0}) {
		t.Error("removing from empty garden should return false")
	}
	if world.Remove(types.GridCoord{Row: -3, Col: 99}) {
		t.Error("removing out of bounds should return false")
	}
	if world.TakeChanged() {
		t.Error("no-op removal should not mark the world changed")
	}
}

func TestWater(t *testing.T) {
	world, clock := newTestWorld(t)

	plantID, _ := world.Place(types.GridCoord{Row: 1, Col: 1}, "fern")
	world.Place(types.GridCoord{Row: 8, Col: 8}, "gnome")
	world.TakeChanged()

	em := world.EntityManager()
	plant, _ := ecs.GetComponent[*components.PlantStateComponent](em, plantID)

	t.Run("健康植物重新计时", func(t *testing.T) {
		placedAt := clock.Now()
		clock.Advance(30 * time.Second)

		if !world.Water(types.GridCoord{Row: 1, Col: 1}) {
			t.Fatal("watering a plant should report a change")
		}
		if !plant.LastWatered.Equal(clock.Now()) {
			t.Errorf("LastWatered = %v, want %v", plant.LastWatered, clock.Now())
		}
		// 健康浇水不触碰模拟时间戳
		if !plant.LastSimulated.Equal(placedAt) {
			t.Errorf("LastSimulated should stay at %v, got %v", placedAt, plant.LastSimulated)
		}
		if !world.TakeChanged() {
			t.Error("watering should mark the world changed")
		}
	})

	t.Run("缺水植物恢复", func(t *testing.T) {
		plant.Health = types.HealthNeedsWater
		plant.GrowthProgress = 0.4
		clock.Advance(10 * time.Minute)

		if !world.Water(types.GridCoord{Row: 1, Col: 1}) {
			t.Fatal("watering a thirsty plant should report a change")
		}
		if plant.Health != types.HealthHealthy {
			t.Error("plant should be healthy after watering")
		}
		// 两个时间戳都重置，停滞期不会被补算
		if !plant.LastWatered.Equal(clock.Now()) || !plant.LastSimulated.Equal(clock.Now()) {
			t.Error("both timestamps should reset to now on revival")
		}
		if plant.GrowthProgress != 0.4 {
			t.Error("watering must not change growth progress")
		}
	})

	t.Run("装饰物无效果", func(t *testing.T) {
		world.TakeChanged()
		if world.Water(types.GridCoord{Row: 8, Col: 8}) {
			t.Error("watering decor should be a no-op")
		}
		if world.TakeChanged() {
			t.Error("watering decor should not mark the world changed")
		}
	})

	t.Run("空格无效果", func(t *testing.T) {
		if world.Water(types.GridCoord{Row: 0, Col: 7}) {
			t.Error("watering an empty cell should be a no-op")
		}
	})
}

// TestAliasCorruptionTreatedAsEmpty 损坏的别名格按空格处理且不崩溃
func TestAliasCorruptionTreatedAsEmpty(t *testing.T) {
	world, _ := newTestWorld(t)
	grid := world.Grid()

	t.Run("指向已销毁实体", func(t *testing.T) {
		id, _ := world.Place(types.GridCoord{Row: 0, Col: 0}, "fern")
		// 绕过 Remove 直接销毁实体，留下悬空指针
		world.EntityManager().DestroyEntity(id)
		world.EntityManager().RemoveMarkedEntities()

		if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 0, Col: 0}); ok {
			t.Error("dangling origin cell should resolve as empty")
		}
	})

	t.Run("原点格未指回实体", func(t *testing.T) {
		id, _ := world.Place(types.GridCoord{Row: 5, Col: 5}, "bush")
		// 手动破坏恒等式：把原点格改成空格，别名格仍指向实体
		grid.Cells[5][5] = components.GridCell{}

		if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 5, Col: 6}); ok {
			t.Errorf("alias cell whose origin does not point back to %d should resolve as empty", id)
		}
		// 解析失败不应修改网格内容
		if grid.Cells[5][6].Kind != types.CellAlias {
			t.Error("resolution must not mutate the grid")
		}
	})
}

func TestTakeChanged(t *testing.T) {
	world, _ := newTestWorld(t)

	if world.TakeChanged() {
		t.Error("fresh world should not be dirty")
	}

	world.Place(types.GridCoord{Row: 0, Col: 0}, "fern")
	if !world.TakeChanged() {
		t.Error("placement should mark the world changed")
	}
	if world.TakeChanged() {
		t.Error("TakeChanged should clear the flag")
	}
}
