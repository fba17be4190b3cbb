package game

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/types"
)

// mustPlace 放置失败直接终止测试
func mustPlace(t *testing.T, w *GardenWorld, coord types.GridCoord, typeID string) ecs.EntityID {
	t.Helper()
	id, err := w.Place(coord, typeID)
	if err != nil {
		t.Fatalf("Place %s at %v failed: %v", typeID, coord, err)
	}
	return id
}

// TestSerializeCellMatrix 验证存档矩阵：原点格持有记录，空格与别名格为 null
func TestSerializeCellMatrix(t *testing.T) {
	world, _ := newTestWorld(t)

	fernID := mustPlace(t, world, types.GridCoord{Row: 0, Col: 0}, "fern")
	mustPlace(t, world, types.GridCoord{Row: 2, Col: 3}, "bush")
	mustPlace(t, world, types.GridCoord{Row: 5, Col: 5}, "gnome")

	data := world.Serialize()
	if data.Version != GardenSaveVersion {
		t.Errorf("Version = %d, want %d", data.Version, GardenSaveVersion)
	}
	if len(data.Cells) != config.GridDivisions || len(data.Cells[0]) != config.GridDivisions {
		t.Fatalf("Cell matrix must match the grid shape")
	}

	// 原点格
	fern := data.Cells[0][0]
	if fern == nil || fern.TypeID != "fern" || fern.Category != "plant" {
		t.Fatalf("Cells[0][0] = %+v, want fern plant record", fern)
	}
	if fern.Health != "healthy" {
		t.Errorf("Fresh fern health = %q, want healthy", fern.Health)
	}

	bush := data.Cells[2][3]
	if bush == nil || bush.TypeID != "bush" || bush.FootprintRows != 2 || bush.FootprintCols != 2 {
		t.Fatalf("Cells[2][3] = %+v, want 2x2 bush record", bush)
	}

	gnome := data.Cells[5][5]
	if gnome == nil || gnome.Category != "decor" {
		t.Fatalf("Cells[5][5] = %+v, want decor record", gnome)
	}
	if gnome.Health != "" {
		t.Errorf("Decor record must not carry plant health, got %q", gnome.Health)
	}

	// 别名格与空格都是 null
	for _, alias := range []types.GridCoord{{Row: 2, Col: 4}, {Row: 3, Col: 3}, {Row: 3, Col: 4}} {
		if data.Cells[alias.Row][alias.Col] != nil {
			t.Errorf("Alias cell (%d,%d) must serialize as null", alias.Row, alias.Col)
		}
	}
	if data.Cells[11][11] != nil {
		t.Error("Empty cell must serialize as null")
	}

	// 视觉句柄绝不入档：给实体挂上视觉组件后重新序列化，记录不受影响
	ecs.AddComponent(world.EntityManager(), fernID, &components.VisualComponent{Handle: 42})
	again := world.Serialize()
	if again.Cells[0][0] == nil || again.Cells[0][0].TypeID != "fern" {
		t.Error("Serialize must ignore transient visual state")
	}
}

// TestSaveRoundTrip 验证往返恢复：时钟不动时第二个世界逐格等价
func TestSaveRoundTrip(t *testing.T) {
	world, clock := newTestWorld(t)

	mustPlace(t, world, types.GridCoord{Row: 1, Col: 1}, "fern")
	mustPlace(t, world, types.GridCoord{Row: 4, Col: 6}, "bush")
	mustPlace(t, world, types.GridCoord{Row: 9, Col: 2}, "bench")
	mustPlace(t, world, types.GridCoord{Row: 0, Col: 11}, "daisy")

	// 给 fern 一点进度和缺水状态，让往返携带非默认值
	fernID, _ := world.ResolveObjectAt(types.GridCoord{Row: 1, Col: 1})
	fern, _ := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), fernID)
	fern.GrowthProgress = 0.37
	fern.Health = types.HealthNeedsWater

	// 经过真实的 YAML 编解码，而不是直接传结构体
	raw, err := yaml.Marshal(world.Serialize())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded GardenSaveData
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	second := NewGardenWorld(config.DefaultObjectCatalog(), clock)
	second.Restore(&decoded)

	if got, want := second.ObjectCount(), world.ObjectCount(); got != want {
		t.Fatalf("Restored object count = %d, want %d", got, want)
	}

	// 逐格对比占用与对象状态
	for r := 0; r < config.GridDivisions; r++ {
		for c := 0; c < config.GridDivisions; c++ {
			coord := types.GridCoord{Row: r, Col: c}
			origID, origOK := world.ResolveObjectAt(coord)
			newID, newOK := second.ResolveObjectAt(coord)
			if origOK != newOK {
				t.Fatalf("Occupancy mismatch at (%d,%d): %v vs %v", r, c, origOK, newOK)
			}
			if !origOK {
				continue
			}

			origObj, _ := ecs.GetComponent[*components.GardenObjectComponent](world.EntityManager(), origID)
			newObj, _ := ecs.GetComponent[*components.GardenObjectComponent](second.EntityManager(), newID)
			if origObj.TypeID != newObj.TypeID || origObj.Origin() != newObj.Origin() || origObj.Footprint() != newObj.Footprint() {
				t.Errorf("Object mismatch at (%d,%d): %+v vs %+v", r, c, origObj, newObj)
			}

			origPlant, origHas := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), origID)
			newPlant, newHas := ecs.GetComponent[*components.PlantStateComponent](second.EntityManager(), newID)
			if origHas != newHas {
				t.Fatalf("Plant state presence mismatch at (%d,%d)", r, c)
			}
			if origHas {
				if origPlant.GrowthProgress != newPlant.GrowthProgress {
					t.Errorf("Progress mismatch at (%d,%d): %f vs %f", r, c, origPlant.GrowthProgress, newPlant.GrowthProgress)
				}
				if origPlant.Health != newPlant.Health {
					t.Errorf("Health mismatch at (%d,%d): %v vs %v", r, c, origPlant.Health, newPlant.Health)
				}
				if !origPlant.LastSimulated.Equal(newPlant.LastSimulated) || !origPlant.LastWatered.Equal(newPlant.LastWatered) {
					t.Errorf("Timestamp mismatch at (%d,%d)", r, c)
				}
			}
		}
	}
}

// TestClearThenRestore 验证序列化→清空→恢复：对象回到原格，状态不丢
func TestClearThenRestore(t *testing.T) {
	world, _ := newTestWorld(t)

	fernID := mustPlace(t, world, types.GridCoord{Row: 3, Col: 3}, "fern")
	gnomeID := mustPlace(t, world, types.GridCoord{Row: 7, Col: 8}, "gnome")

	// 植物长到一半
	fern, _ := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), fernID)
	fern.GrowthProgress = 0.5
	gnome, _ := ecs.GetComponent[*components.DecorStateComponent](world.EntityManager(), gnomeID)
	rotation := gnome.RotationY

	saved := world.Serialize()

	world.Clear()
	if world.ObjectCount() != 0 {
		t.Fatalf("Expected empty grid after Clear, got %d objects", world.ObjectCount())
	}
	if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 3, Col: 3}); ok {
		t.Fatal("Cell (3,3) must be empty after Clear")
	}

	world.Restore(saved)

	// 时钟没动：进度原样回到 0.5
	restoredID, ok := world.ResolveObjectAt(types.GridCoord{Row: 3, Col: 3})
	if !ok {
		t.Fatal("Fern must be back at (3,3)")
	}
	plant, _ := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), restoredID)
	if plant.GrowthProgress != 0.5 {
		t.Errorf("Restored progress = %f, want 0.5", plant.GrowthProgress)
	}
	if plant.Health != types.HealthHealthy {
		t.Errorf("Restored health = %v, want healthy", plant.Health)
	}

	decorID, ok := world.ResolveObjectAt(types.GridCoord{Row: 7, Col: 8})
	if !ok {
		t.Fatal("Gnome must be back at (7,8)")
	}
	decor, _ := ecs.GetComponent[*components.DecorStateComponent](world.EntityManager(), decorID)
	if decor.RotationY != rotation {
		t.Errorf("Decor rotation changed across round trip: %f vs %f", decor.RotationY, rotation)
	}
}

// TestRestoreDropsCorruptRecords 验证损坏记录逐条丢弃，其余照常恢复
func TestRestoreDropsCorruptRecords(t *testing.T) {
	world, clock := newTestWorld(t)

	now := clock.Now()
	data := &GardenSaveData{Version: GardenSaveVersion, Cells: emptyCellMatrix()}
	// 合法记录
	data.Cells[0][0] = &SavedObjectRecord{TypeID: "fern", Category: "plant", FootprintRows: 1, FootprintCols: 1, Health: "healthy", LastSimulated: now, LastWatered: now}
	// 未知类型
	data.Cells[1][1] = &SavedObjectRecord{TypeID: "triffid", Category: "plant", FootprintRows: 1, FootprintCols: 1}
	// 占地伸出边界
	data.Cells[11][11] = &SavedObjectRecord{TypeID: "bush", Category: "plant", FootprintRows: 2, FootprintCols: 2}
	// 两条 hedge 记录互相重叠：第二条落在第一条的别名格上
	data.Cells[0][1] = &SavedObjectRecord{TypeID: "hedge", Category: "plant", FootprintRows: 1, FootprintCols: 2}
	data.Cells[0][2] = &SavedObjectRecord{TypeID: "hedge", Category: "plant", FootprintRows: 1, FootprintCols: 2}

	world.Restore(data)

	// fern + 第一条 hedge 存活；重叠的第二条 hedge 被丢弃
	if got := world.ObjectCount(); got != 2 {
		t.Errorf("Expected 2 restored objects, got %d", got)
	}
	if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 0, Col: 0}); !ok {
		t.Error("Valid fern record must survive")
	}
	if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 1, Col: 1}); ok {
		t.Error("Unknown type must be dropped")
	}
	if _, ok := world.ResolveObjectAt(types.GridCoord{Row: 11, Col: 11}); ok {
		t.Error("Out-of-bounds footprint must be dropped")
	}
}

// TestRestoreDefaultsZeroTimestamps 验证缺失时间戳回退到当前时刻，
// 避免对超早零值时间做出天文数字的追帧
func TestRestoreDefaultsZeroTimestamps(t *testing.T) {
	world, clock := newTestWorld(t)

	data := &GardenSaveData{Version: GardenSaveVersion, Cells: emptyCellMatrix()}
	data.Cells[4][4] = &SavedObjectRecord{TypeID: "daisy", Category: "plant", FootprintRows: 1, FootprintCols: 1}

	world.Restore(data)

	id, ok := world.ResolveObjectAt(types.GridCoord{Row: 4, Col: 4})
	if !ok {
		t.Fatal("Daisy must be restored")
	}
	plant, _ := ecs.GetComponent[*components.PlantStateComponent](world.EntityManager(), id)
	if !plant.LastSimulated.Equal(clock.Now()) || !plant.LastWatered.Equal(clock.Now()) {
		t.Errorf("Zero timestamps must default to now, got %v / %v", plant.LastSimulated, plant.LastWatered)
	}
}

func emptyCellMatrix() [][]*SavedObjectRecord {
	cells := make([][]*SavedObjectRecord, config.GridDivisions)
	for r := range cells {
		cells[r] = make([]*SavedObjectRecord, config.GridDivisions)
	}
	return cells
}
