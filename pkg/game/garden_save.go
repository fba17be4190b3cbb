package game

import (
	"log"
	"time"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/types"
)

// GardenSaveVersion 当前存档格式版本
const GardenSaveVersion = 1

// SavedObjectRecord 原点格上对象的扁平存档记录
//
// 只含持久字段：视觉句柄是瞬态的不存，原点坐标由记录在矩阵中的
// 位置隐含，也不存。植物字段对装饰物留零值，靠 omitempty 省掉
type SavedObjectRecord struct {
	TypeID        string `yaml:"typeId"`
	Category      string `yaml:"category"`
	FootprintRows int    `yaml:"footprintRows"`
	FootprintCols int    `yaml:"footprintCols"`

	GrowthProgress float64   `yaml:"growthProgress,omitempty"`
	Health         string    `yaml:"health,omitempty"`
	LastSimulated  time.Time `yaml:"lastSimulated,omitempty"`
	LastWatered    time.Time `yaml:"lastWatered,omitempty"`

	RotationY float64 `yaml:"rotationY,omitempty"`
}

// GardenSaveData 整张网格的存档文档
//
// Cells 是与网格同形的矩阵：空格与别名格都是 null，
// 只有原点格持有记录。反序列化时别名格按占地重新生成
type GardenSaveData struct {
	Version int                    `yaml:"version"`
	Cells   [][]*SavedObjectRecord `yaml:"cells"`
}

// Serialize 把当前网格导出为存档文档
func (w *GardenWorld) Serialize() *GardenSaveData {
	data := &GardenSaveData{
		Version: GardenSaveVersion,
		Cells:   make([][]*SavedObjectRecord, config.GridDivisions),
	}
	for r := range data.Cells {
		data.Cells[r] = make([]*SavedObjectRecord, config.GridDivisions)
	}

	grid := w.Grid()
	if grid == nil {
		return data
	}

	for r := 0; r < config.GridDivisions; r++ {
		for c := 0; c < config.GridDivisions; c++ {
			cell := grid.Cells[r][c]
			if cell.Kind != types.CellOrigin {
				continue
			}
			obj, ok := ecs.GetComponent[*components.GardenObjectComponent](w.em, cell.ID)
			if !ok {
				log.Printf("[GardenWorld] Serialize: origin (%d,%d) has no object component, skipping", r, c)
				continue
			}

			record := &SavedObjectRecord{
				TypeID:        obj.TypeID,
				Category:      obj.Category.String(),
				FootprintRows: obj.FootprintRows,
				FootprintCols: obj.FootprintCols,
			}
			if plant, ok := ecs.GetComponent[*components.PlantStateComponent](w.em, cell.ID); ok {
				record.GrowthProgress = plant.GrowthProgress
				record.Health = plant.Health.String()
				record.LastSimulated = plant.LastSimulated
				record.LastWatered = plant.LastWatered
			}
			if decor, ok := ecs.GetComponent[*components.DecorStateComponent](w.em, cell.ID); ok {
				record.RotationY = decor.RotationY
			}
			data.Cells[r][c] = record
		}
	}
	return data
}

// Clear 清空网格：销毁全部对象实体并抹掉所有格子
func (w *GardenWorld) Clear() {
	for _, id := range ecs.GetEntitiesWith1[*components.GardenObjectComponent](w.em) {
		w.em.DestroyEntity(id)
	}
	w.em.RemoveMarkedEntities()

	if grid := w.Grid(); grid != nil {
		for r := range grid.Cells {
			for c := range grid.Cells[r] {
				grid.Cells[r][c] = components.GridCell{}
			}
		}
	}
}

// Restore 用存档文档重建网格
//
// 先清空再逐格重建：原点记录恢复为实体，别名格按占地重新生成。
// 单条记录损坏（未知类型、越界、互相重叠）只丢弃该条并记日志，
// 其余记录照常恢复。恢复不做追帧：时间戳原样落回组件，离线时长
// 由载入后的第一个模拟帧一次性补足
func (w *GardenWorld) Restore(data *GardenSaveData) {
	w.Clear()

	grid := w.Grid()
	if grid == nil || data == nil {
		return
	}

	now := w.clock.Now()
	restored := 0
	for r := 0; r < len(data.Cells) && r < config.GridDivisions; r++ {
		for c := 0; c < len(data.Cells[r]) && c < config.GridDivisions; c++ {
			record := data.Cells[r][c]
			if record == nil {
				continue
			}
			if w.restoreRecord(grid, types.GridCoord{Row: r, Col: c}, record, now) {
				restored++
			}
		}
	}
	log.Printf("[GardenWorld] Restored %d objects from save", restored)
}

// restoreRecord 恢复单条原点记录，损坏时丢弃并返回 false
func (w *GardenWorld) restoreRecord(grid *components.GardenGridComponent, origin types.GridCoord, record *SavedObjectRecord, now time.Time) bool {
	def, ok := w.catalog.Get(record.TypeID)
	if !ok {
		log.Printf("[GardenWorld] Restore: unknown type %q at (%d,%d), dropping", record.TypeID, origin.Row, origin.Col)
		return false
	}

	fp := types.Footprint{Rows: record.FootprintRows, Cols: record.FootprintCols}
	if fp.Rows <= 0 || fp.Cols <= 0 {
		// 旧存档没有占地字段时回退到目录定义
		fp = def.Footprint()
	}
	if !w.IsAreaFree(origin, fp) {
		log.Printf("[GardenWorld] Restore: area (%d,%d) %dx%d unavailable, dropping %q", origin.Row, origin.Col, fp.Rows, fp.Cols, record.TypeID)
		return false
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

	if def.IsPlant() {
		progress := record.GrowthProgress
		if progress < 0 {
			progress = 0
		} else if progress > 1 {
			progress = 1
		}
		lastSimulated := record.LastSimulated
		if lastSimulated.IsZero() {
			lastSimulated = now
		}
		lastWatered := record.LastWatered
		if lastWatered.IsZero() {
			lastWatered = now
		}
		ecs.AddComponent(w.em, id, &components.PlantStateComponent{
			GrowthProgress: progress,
			Health:         types.ParsePlantHealth(record.Health),
			LastSimulated:  lastSimulated,
			LastWatered:    lastWatered,
		})
	} else {
		ecs.AddComponent(w.em, id, &components.DecorStateComponent{
			RotationY: record.RotationY,
		})
	}

	w.stampArea(grid, id, origin, fp)
	return true
}
