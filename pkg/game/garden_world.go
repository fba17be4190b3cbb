// Package game 提供花园的领域模型与各类管理器
package game

import (
	"errors"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/types"
)

// 放置操作的哨兵错误
// 这些错误都在调用方就地处理（日志 + 界面反馈），不会向上传播
var (
	// ErrAreaOccupied 目标区域被占用或超出花园边界
	ErrAreaOccupied = errors.New("area occupied")
	// ErrUnknownType 对象类型不在目录中
	ErrUnknownType = errors.New("unknown object type")
	// ErrOutOfBounds 格子坐标超出花园边界
	ErrOutOfBounds = errors.New("coordinates out of bounds")
)

// GardenWorld 花园世界模型
//
// 持有实体管理器、占用网格和对象目录，是所有放置/移除/浇水
// 操作的唯一入口。整个模型单线程协作式访问，没有内部锁。
//
// 世界不直接触发持久化和渲染：每次成功的修改置脏标记，
// 场景在帧末通过 TakeChanged 统一驱动存档与请求帧
type GardenWorld struct {
	em         *ecs.EntityManager
	gridEntity ecs.EntityID
	catalog    *config.ObjectCatalog
	clock      Clock
	changed    bool
}

// NewGardenWorld 创建一个空的花园世界
//
// 参数：
//   - catalog: 对象类型目录
//   - clock: 时钟（测试可注入手动时钟）
func NewGardenWorld(catalog *config.ObjectCatalog, clock Clock) *GardenWorld {
	w := &GardenWorld{
		em:      ecs.NewEntityManager(),
		catalog: catalog,
		clock:   clock,
	}
	w.gridEntity = w.em.CreateEntity()
	ecs.AddComponent(w.em, w.gridEntity, &components.GardenGridComponent{})
	return w
}

// EntityManager 返回底层实体管理器
func (w *GardenWorld) EntityManager() *ecs.EntityManager {
	return w.em
}

// Catalog 返回对象类型目录
func (w *GardenWorld) Catalog() *config.ObjectCatalog {
	return w.catalog
}

// Clock 返回世界时钟
func (w *GardenWorld) Clock() Clock {
	return w.clock
}

// Grid 返回占用网格组件
// 网格组件丢失属于严重的内部状态损坏，此时返回 nil 并记录日志
func (w *GardenWorld) Grid() *components.GardenGridComponent {
	grid, ok := ecs.GetComponent[*components.GardenGridComponent](w.em, w.gridEntity)
	if !ok {
		log.Printf("[GardenWorld] Grid component missing, world state is corrupt")
		return nil
	}
	return grid
}

// MarkChanged 置脏标记，表示世界状态有未保存的修改
func (w *GardenWorld) MarkChanged() {
	w.changed = true
}

// TakeChanged 读取并清除脏标记
// 场景每帧调用一次，驱动持久化和渲染请求
func (w *GardenWorld) TakeChanged() bool {
	changed := w.changed
	w.changed = false
	return changed
}

// IsAreaFree 检查以 origin 为左上角、尺寸为 fp 的区域是否完全空闲
//
// 区域任何一格超出边界或已被占用都返回 false。
// 网格不可用时按占用处理，放置操作自然被拒绝
func (w *GardenWorld) IsAreaFree(origin types.GridCoord, fp types.Footprint) bool {
	grid := w.Grid()
	if grid == nil {
		return false
	}
	for r := origin.Row; r < origin.Row+fp.Rows; r++ {
		for c := origin.Col; c < origin.Col+fp.Cols; c++ {
			if !config.InGridBounds(r, c) {
				return false
			}
			if grid.Cells[r][c].Kind != types.CellEmpty {
				return false
			}
		}
	}
	return true
}

// ResolveObjectAt 解析指定格子上的对象
//
// 空格返回 (InvalidEntity, false)。原点格直接返回实体；
// 别名格做一跳解析并校验别名恒等式：目标实体必须存活、
// 携带对象组件、且其原点格确实以原点标签指回同一实体。
// 任何一条不满足都视为数据损坏，记录日志后按空格处理（不修改网格）
func (w *GardenWorld) ResolveObjectAt(coord types.GridCoord) (ecs.EntityID, bool) {
	grid := w.Grid()
	if grid == nil || !config.InGridBounds(coord.Row, coord.Col) {
		return ecs.InvalidEntity, false
	}

	cell := grid.Cells[coord.Row][coord.Col]
	switch cell.Kind {
	case types.CellEmpty:
		return ecs.InvalidEntity, false

	case types.CellOrigin:
		if _, ok := ecs.GetComponent[*components.GardenObjectComponent](w.em, cell.ID); !ok {
			log.Printf("[GardenWorld] Corrupt origin cell at (%d, %d): entity %d has no object component",
				coord.Row, coord.Col, cell.ID)
			return ecs.InvalidEntity, false
		}
		return cell.ID, true

	case types.CellAlias:
		obj, ok := ecs.GetComponent[*components.GardenObjectComponent](w.em, cell.ID)
		if !ok {
			log.Printf("[GardenWorld] Corrupt alias cell at (%d, %d): entity %d has no object component",
				coord.Row, coord.Col, cell.ID)
			return ecs.InvalidEntity, false
		}
		if !config.InGridBounds(obj.OriginRow, obj.OriginCol) {
			log.Printf("[GardenWorld] Corrupt alias cell at (%d, %d): origin (%d, %d) out of bounds",
				coord.Row, coord.Col, obj.OriginRow, obj.OriginCol)
			return ecs.InvalidEntity, false
		}
		originCell := grid.Cells[obj.OriginRow][obj.OriginCol]
		if originCell.Kind != types.CellOrigin || originCell.ID != cell.ID {
			log.Printf("[GardenWorld] Corrupt alias cell at (%d, %d): origin cell does not point back to entity %d",
				coord.Row, coord.Col, cell.ID)
			return ecs.InvalidEntity, false
		}
		return cell.ID, true
	}

	return ecs.InvalidEntity, false
}

// Place 在 origin 处放置一个 typeID 类型的对象
//
// 失败情形：
//   - 类型不在目录中：ErrUnknownType
//   - 区域被占用或越界：ErrAreaOccupied
//
// 成功时写入原点格与别名格、创建实体并置脏标记。
// 视觉句柄不在这里创建，由场景同步系统在下一帧补齐
//
// 返回：
//   - ecs.EntityID: 新对象的实体 ID
//   - error: 失败原因（nil 表示成功）
func (w *GardenWorld) Place(origin types.GridCoord, typeID string) (ecs.EntityID, error) {
	def, ok := w.catalog.Get(typeID)
	if !ok {
		return ecs.InvalidEntity, ErrUnknownType
	}

	fp := def.Footprint()
	if !w.IsAreaFree(origin, fp) {
		return ecs.InvalidEntity, ErrAreaOccupied
	}
	grid := w.Grid()
	if grid == nil {
		return ecs.InvalidEntity, ErrAreaOccupied
	}

	id := w.em.CreateEntity()
	ecs.AddComponent(w.em, id, &components.GardenObjectComponent{
		TypeID:        def.TypeID,
		Category:      def.CategoryKind(),
		OriginRow:     origin.Row,
		OriginCol:     origin.Col,
		FootprintRows: fp.Rows,
		FootprintCols: fp.Cols,
	})

	now := w.clock.Now()
	if def.IsPlant() {
		ecs.AddComponent(w.em, id, &components.PlantStateComponent{
			GrowthProgress: 0,
			Health:         types.HealthHealthy,
			LastSimulated:  now,
			LastWatered:    now,
		})
	} else {
		ecs.AddComponent(w.em, id, &components.DecorStateComponent{
			RotationY: rand.Float64() * 2 * math.Pi,
		})
	}

	w.stampArea(grid, id, origin, fp)

	w.MarkChanged()
	log.Printf("[GardenWorld] Placed %s at (%d, %d), footprint %dx%d, entity %d",
		typeID, origin.Row, origin.Col, fp.Rows, fp.Cols, id)
	return id, nil
}

// stampArea 写入一片占用：原点格 + 别名格
func (w *GardenWorld) stampArea(grid *components.GardenGridComponent, id ecs.EntityID, origin types.GridCoord, fp types.Footprint) {
	for r := origin.Row; r < origin.Row+fp.Rows; r++ {
		for c := origin.Col; c < origin.Col+fp.Cols; c++ {
			kind := types.CellAlias
			if r == origin.Row && c == origin.Col {
				kind = types.CellOrigin
			}
			grid.Cells[r][c] = components.GridCell{Kind: kind, ID: id}
		}
	}
}

// Remove 移除指定格子上的对象（格子可以是原点格或任意别名格）
//
// 空格或损坏格子是静默无操作。成功移除返回 true
func (w *GardenWorld) Remove(coord types.GridCoord) bool {
	id, ok := w.ResolveObjectAt(coord)
	if !ok {
		return false
	}
	obj, ok := ecs.GetComponent[*components.GardenObjectComponent](w.em, id)
	if !ok {
		return false
	}
	grid := w.Grid()
	if grid == nil {
		return false
	}

	// 清空整个占地范围
	for r := obj.OriginRow; r < obj.OriginRow+obj.FootprintRows; r++ {
		for c := obj.OriginCol; c < obj.OriginCol+obj.FootprintCols; c++ {
			if config.InGridBounds(r, c) {
				grid.Cells[r][c] = components.GridCell{}
			}
		}
	}

	w.em.DestroyEntity(id)
	w.MarkChanged()
	log.Printf("[GardenWorld] Removed %s entity %d from (%d, %d)", obj.TypeID, id, coord.Row, coord.Col)
	return true
}

// Water 给指定格子上的植物浇水
//
// 行为：
//   - 缺水植物：恢复健康，浇水与模拟时间戳都重置为当前时刻，
//     保证停滞期间不会被补算生长
//   - 健康植物：仅重置浇水时间戳（重新计时）
//   - 装饰物：记录日志的无操作
//   - 空格 / 越界：无操作
//
// 返回状态是否发生变化（变化意味着需要存档）
func (w *GardenWorld) Water(coord types.GridCoord) bool {
	id, ok := w.ResolveObjectAt(coord)
	if !ok {
		return false
	}
	plant, ok := ecs.GetComponent[*components.PlantStateComponent](w.em, id)
	if !ok {
		log.Printf("[GardenWorld] Watering decor at (%d, %d) has no effect", coord.Row, coord.Col)
		return false
	}

	now := w.clock.Now()
	if plant.Health == types.HealthNeedsWater {
		plant.Health = types.HealthHealthy
		plant.LastWatered = now
		plant.LastSimulated = now
		log.Printf("[GardenWorld] Plant entity %d revived by watering", id)
	} else {
		plant.LastWatered = now
	}

	w.MarkChanged()
	return true
}

// AnyPlantGrowing 判断是否有植物仍在生长
// 调度器的生长轮询据此决定空闲时要不要请求帧
func (w *GardenWorld) AnyPlantGrowing() bool {
	for _, id := range ecs.GetEntitiesWith2[*components.GardenObjectComponent, *components.PlantStateComponent](w.em) {
		plant, ok := ecs.GetComponent[*components.PlantStateComponent](w.em, id)
		if ok && plant.IsGrowing() {
			return true
		}
	}
	return false
}

// ObjectCount 返回已放置对象的数量
func (w *GardenWorld) ObjectCount() int {
	return len(ecs.GetEntitiesWith1[*components.GardenObjectComponent](w.em))
}
