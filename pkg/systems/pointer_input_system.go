package systems

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/types"
	"github.com/decker502/garden/pkg/utils"
)

// InputTool 指针当前绑定的工具
type InputTool int

const (
	// ToolNone 未选择工具，点击地面无效果
	ToolNone InputTool = iota
	// ToolPlace 放置当前选中的对象类型
	ToolPlace
	// ToolRemove 移除点中的对象（整个占地区域一起移除）
	ToolRemove
	// ToolWater 给点中的植物浇水
	ToolWater
)

// String 返回工具名称
func (t InputTool) String() string {
	switch t {
	case ToolPlace:
		return "place"
	case ToolRemove:
		return "remove"
	case ToolWater:
		return "water"
	default:
		return "none"
	}
}

// PlacementPreview 放置预览状态
// 渲染层据此在目标区域画合法（绿）/非法（红）底色
type PlacementPreview struct {
	Visible       bool
	Row, Col      int // 预览区域左上角格子
	FootprintRows int
	FootprintCols int
	Legal         bool
}

// PointerInputSystem 指针输入系统
// 把指针事件翻译成花园世界的放置/移除/浇水操作：
// Update 只做 ebiten 状态轮询，坐标级的处理逻辑单独成方法便于测试
type PointerInputSystem struct {
	world     *game.GardenWorld
	inventory *game.InventoryManager // 可为 nil（不启用库存约束）
	scheduler *game.FrameScheduler

	tool        InputTool
	placeTypeID string           // ToolPlace 选中的对象类型
	preview     PlacementPreview // 最近一次悬停算出的预览
	pointerHeld bool
}

// NewPointerInputSystem 创建指针输入系统
//
// 参数：
//   - world: 花园世界
//   - inventory: 库存管理器，可为 nil
//   - scheduler: 帧调度器，指针按下期间保持持续渲染
//
// 返回：
//   - *PointerInputSystem: 指针输入系统实例
func NewPointerInputSystem(world *game.GardenWorld, inventory *game.InventoryManager, scheduler *game.FrameScheduler) *PointerInputSystem {
	return &PointerInputSystem{
		world:     world,
		inventory: inventory,
		scheduler: scheduler,
	}
}

// Update 轮询指针与键盘状态
// 每个渲染帧调用一次；没有渲染帧时指针也不可能产生点击
func (s *PointerInputSystem) Update() {
	// 快捷键：Esc 放下工具，R 切换移除，W 切换浇水
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.ClearTool()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.SelectRemoveTool()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		s.SelectWaterTool()
	}

	// 触摸松开的那一帧拿不到坐标，先把本帧位置记下来
	utils.UpdateLastTouchPosition()

	if pressed, _, _ := utils.IsPointerJustPressed(); pressed {
		s.pointerHeld = true
		// 按住期间持续渲染，预览跟手
		s.scheduler.SetInteractionActive(true)
		s.scheduler.StartContinuousLoop()
	}

	x, y := utils.GetPointerPosition()
	s.HandleHoverAt(float64(x), float64(y))

	if released, rx, ry := utils.IsPointerJustReleased(); s.pointerHeld && released {
		s.pointerHeld = false
		s.HandleTapAt(float64(rx), float64(ry))
		s.scheduler.SetInteractionActive(false)
	}
}

// SelectPlaceTool 选择放置工具并绑定对象类型
//
// 参数：
//   - typeID: 要放置的对象类型 ID，必须在目录中
func (s *PointerInputSystem) SelectPlaceTool(typeID string) {
	if _, ok := s.world.Catalog().Get(typeID); !ok {
		log.Printf("[PointerInput] Cannot select unknown type %q", typeID)
		return
	}
	s.tool = ToolPlace
	s.placeTypeID = typeID
	log.Printf("[PointerInput] Tool: place %q", typeID)
}

// SelectRemoveTool 选择移除工具
func (s *PointerInputSystem) SelectRemoveTool() {
	s.tool = ToolRemove
	s.placeTypeID = ""
	log.Printf("[PointerInput] Tool: remove")
}

// SelectWaterTool 选择浇水工具
func (s *PointerInputSystem) SelectWaterTool() {
	s.tool = ToolWater
	s.placeTypeID = ""
	log.Printf("[PointerInput] Tool: water")
}

// ClearTool 放下当前工具
func (s *PointerInputSystem) ClearTool() {
	s.tool = ToolNone
	s.placeTypeID = ""
	s.preview = PlacementPreview{}
}

// Tool 返回当前工具
func (s *PointerInputSystem) Tool() InputTool {
	return s.tool
}

// PlaceTypeID 返回放置工具绑定的类型 ID
func (s *PointerInputSystem) PlaceTypeID() string {
	return s.placeTypeID
}

// Preview 返回最近一次悬停算出的放置预览
func (s *PointerInputSystem) Preview() PlacementPreview {
	return s.preview
}

// HandleHoverAt 根据指针悬停位置刷新放置预览
//
// 只有放置工具产生预览；指针在地面之外时预览不可见
//
// 参数：
//   - screenX, screenY: 指针屏幕坐标（像素）
func (s *PointerInputSystem) HandleHoverAt(screenX, screenY float64) {
	if s.tool != ToolPlace || s.placeTypeID == "" {
		s.preview = PlacementPreview{}
		return
	}
	row, col, ok := utils.MouseToGridCoords(screenX, screenY)
	if !ok {
		s.preview = PlacementPreview{}
		return
	}
	def, ok := s.world.Catalog().Get(s.placeTypeID)
	if !ok {
		s.preview = PlacementPreview{}
		return
	}

	fp := def.Footprint()
	legal := s.world.IsAreaFree(types.GridCoord{Row: row, Col: col}, fp)
	if legal && s.inventory != nil && s.inventory.CountOf(s.placeTypeID) <= 0 {
		legal = false
	}
	s.preview = PlacementPreview{
		Visible:       true,
		Row:           row,
		Col:           col,
		FootprintRows: fp.Rows,
		FootprintCols: fp.Cols,
		Legal:         legal,
	}
}

// HandleTapAt 在指针位置执行当前工具
//
// 参数：
//   - screenX, screenY: 指针屏幕坐标（像素）
//
// 返回：
//   - bool: 是否发生了世界变化
func (s *PointerInputSystem) HandleTapAt(screenX, screenY float64) bool {
	var mutated bool
	switch s.tool {
	case ToolPlace:
		mutated = s.placeAt(screenX, screenY)
	case ToolRemove:
		mutated = s.removeAt(screenX, screenY)
	case ToolWater:
		mutated = s.waterAt(screenX, screenY)
	default:
		return false
	}
	if mutated {
		// 让变化尽快上屏；持续渲染中这是空操作
		s.scheduler.RequestFrame()
	}
	return mutated
}

// placeAt 在指针位置放置当前选中类型
func (s *PointerInputSystem) placeAt(screenX, screenY float64) bool {
	row, col, ok := utils.MouseToGridCoords(screenX, screenY)
	if !ok {
		return false
	}
	if s.inventory != nil && s.inventory.CountOf(s.placeTypeID) <= 0 {
		log.Printf("[PointerInput] No %q left in inventory", s.placeTypeID)
		return false
	}

	coord := types.GridCoord{Row: row, Col: col}
	if _, err := s.world.Place(coord, s.placeTypeID); err != nil {
		log.Printf("[PointerInput] Place %q at (%d,%d) rejected: %v", s.placeTypeID, row, col, err)
		return false
	}
	if s.inventory != nil {
		s.inventory.Debit(s.placeTypeID)
	}
	return true
}

// removeAt 移除指针位置的对象，库存返还对应类型
func (s *PointerInputSystem) removeAt(screenX, screenY float64) bool {
	row, col, ok := utils.MouseToGridCoords(screenX, screenY)
	if !ok {
		return false
	}

	coord := types.GridCoord{Row: row, Col: col}
	id, ok := s.world.ResolveObjectAt(coord)
	if !ok {
		return false
	}
	// 移除前取出类型，实体销毁后组件就查不到了
	typeID := ""
	if obj, ok := ecs.GetComponent[*components.GardenObjectComponent](s.world.EntityManager(), id); ok {
		typeID = obj.TypeID
	}

	if !s.world.Remove(coord) {
		return false
	}
	if s.inventory != nil && typeID != "" {
		s.inventory.Credit(typeID)
	}
	return true
}

// waterAt 给指针位置的植物浇水
func (s *PointerInputSystem) waterAt(screenX, screenY float64) bool {
	row, col, ok := utils.MouseToGridCoords(screenX, screenY)
	if !ok {
		return false
	}
	return s.world.Water(types.GridCoord{Row: row, Col: col})
}
