package scenes

import (
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/garden/internal/scenegraph"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/daynight"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/systems"
	"github.com/decker502/garden/pkg/utils"
)

const (
	// UI Layout Constants - toolbar band at the bottom of the window
	ToolbarY        = 528
	ToolbarHeight   = config.GameWindowHeight - ToolbarY
	ToolbarSlotSize = 48
	ToolbarSlotGap  = 10
	ToolbarStartX   = 16
	ToolbarSlotY    = ToolbarY + 12

	// Status caption (phase + local time) in the top-left corner
	StatusCaptionX = 8
	StatusCaptionY = 6
)

// toolbarSlot 工具栏槽位
// kind 为 "place" 时 typeID 指向库存中的对象类型
type toolbarSlot struct {
	kind   string // "place" / "remove" / "water"
	typeID string
	bounds image.Rectangle
}

// GardenScene is the single interactive scene: a grid garden plane under a
// real-time day/night sky, with a placement toolbar and floating widgets.
//
// 模拟由帧调度器驱动：只有调度器放行的帧才推进生长、同步场景并重绘画布，
// 其余的引擎 tick 仅把上一帧的画布原样上屏
type GardenScene struct {
	world        *game.GardenWorld
	worldManager *game.GardenWorldManager
	settings     *game.SettingsManager
	inventory    *game.InventoryManager
	widgets      *game.WidgetManager
	clock        game.Clock

	scheduler *game.FrameScheduler
	provider  *scenegraph.Provider
	growth    *systems.GrowthSystem
	sceneSync *systems.SceneSyncSystem
	input     *systems.PointerInputSystem

	lighting     daynight.Lighting
	canvas       *ebiten.Image // 最近一次完整渲染的画面
	redraw       bool
	nextAutosave time.Time

	hudFace text.Face
	toolbar []toolbarSlot
}

// NewGardenScene 创建花园场景并完成初始模拟
//
// 构造时同步跑一次模拟帧：载入存档携带的离线时长在任何渲染之前
// 一次性入账，首帧画面即是追帧后的状态
//
// 参数：
//   - world: 花园世界（调用方已完成存档载入）
//   - worldManager: 花园存档管理器
//   - settings: 设置管理器
//   - inventory: 库存管理器
//   - widgets: 悬浮部件管理器
//
// 返回：
//   - *GardenScene: 场景实例
func NewGardenScene(world *game.GardenWorld, worldManager *game.GardenWorldManager,
	settings *game.SettingsManager, inventory *game.InventoryManager,
	widgets *game.WidgetManager) *GardenScene {

	clock := world.Clock()
	scheduler := game.NewFrameScheduler(clock)
	provider := scenegraph.NewProvider()

	scene := &GardenScene{
		world:        world,
		worldManager: worldManager,
		settings:     settings,
		inventory:    inventory,
		widgets:      widgets,
		clock:        clock,
		scheduler:    scheduler,
		provider:     provider,
		growth:       systems.NewGrowthSystem(world),
		sceneSync:    systems.NewSceneSyncSystem(world, provider),
		input:        systems.NewPointerInputSystem(world, inventory, scheduler),
		nextAutosave: clock.Now().Add(config.AutosaveInterval),
		hudFace:      text.NewGoXFace(basicfont.Face7x13),
	}

	scene.runFrame()
	log.Printf("[GardenScene] Initialized: %d objects, %d visuals", world.ObjectCount(), provider.Count())
	return scene
}

// Update 推进场景一个引擎 tick
//
// 参数：
//   - deltaTime: 引擎 tick 间隔（秒）；模拟用绝对时钟，不依赖它
func (s *GardenScene) Update(deltaTime float64) {
	s.rebuildToolbar()
	s.handleToolbarClick()
	s.input.Update()

	// 入场动画期间持续重绘，动画帧不会卡在调度间隙里
	if s.provider.Animate() {
		s.scheduler.RequestFrame()
	}

	if s.scheduler.Tick(s.world.AnyPlantGrowing()) {
		s.runFrame()
		s.scheduler.FinishFrame()
	}

	// 写通：放置/移除/浇水以及健康翻转即刻落盘，并让变化尽快上屏
	if s.world.TakeChanged() {
		s.saveProgress()
		s.scheduler.RequestFrame()
		s.nextAutosave = s.clock.Now().Add(config.AutosaveInterval)
	}

	// 周期兜底：纯生长进度不设修改标记，靠自动保存收敛
	if now := s.clock.Now(); !now.Before(s.nextAutosave) {
		s.saveProgress()
		s.nextAutosave = now.Add(config.AutosaveInterval)
	}
}

// runFrame 执行一个模拟帧：清理延迟删除、生长追帧、场景同步、光照取样
// 模拟永远先于渲染，本帧画布据此重绘
func (s *GardenScene) runFrame() {
	now := s.clock.Now()
	s.world.EntityManager().RemoveMarkedEntities()
	s.growth.Update(now)
	s.sceneSync.Update()
	s.lighting = daynight.ComputeLighting(now)
	s.redraw = true
}

// saveProgress 保存花园与库存
// 写失败只记日志，不打断交互
func (s *GardenScene) saveProgress() {
	if err := s.worldManager.Save(); err != nil {
		log.Printf("[GardenScene] Garden save failed: %v", err)
	}
	if err := s.inventory.Save(); err != nil {
		log.Printf("[GardenScene] Inventory save failed: %v", err)
	}
}

// SaveOnExit 在窗口关闭前做最后一次同步保存
//
// 返回：
//   - bool: 全部保存成功返回 true
func (s *GardenScene) SaveOnExit() bool {
	ok := true
	if err := s.worldManager.Save(); err != nil {
		log.Printf("[GardenScene] Final garden save failed: %v", err)
		ok = false
	}
	if err := s.inventory.Save(); err != nil {
		log.Printf("[GardenScene] Final inventory save failed: %v", err)
		ok = false
	}
	if err := s.widgets.Save(); err != nil {
		log.Printf("[GardenScene] Final widget save failed: %v", err)
		ok = false
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[GardenScene] Final settings save failed: %v", err)
		ok = false
	}
	return ok
}

// Teardown 释放场景持有的全部视觉资源
// 视觉句柄的获取与释放必须配对，场景卸载时由这里兜底
func (s *GardenScene) Teardown() {
	s.sceneSync.Teardown()
	if n := s.provider.Count(); n != 0 {
		log.Printf("[GardenScene] WARNING: %d visuals leaked past teardown", n)
	}
}

// rebuildToolbar 依据库存重建工具栏槽位
// 库存数量随放置/移除变化，槽位序列每个 tick 重建一次
func (s *GardenScene) rebuildToolbar() {
	owned := s.inventory.OwnedTypes()
	slots := make([]toolbarSlot, 0, len(owned)+2)

	x := ToolbarStartX
	for _, typeID := range owned {
		slots = append(slots, toolbarSlot{
			kind:   "place",
			typeID: typeID,
			bounds: image.Rect(x, ToolbarSlotY, x+ToolbarSlotSize, ToolbarSlotY+ToolbarSlotSize),
		})
		x += ToolbarSlotSize + ToolbarSlotGap
	}

	// 移除与浇水靠右排
	x = config.GameWindowWidth - 2*(ToolbarSlotSize+ToolbarSlotGap)
	slots = append(slots, toolbarSlot{
		kind:   "remove",
		bounds: image.Rect(x, ToolbarSlotY, x+ToolbarSlotSize, ToolbarSlotY+ToolbarSlotSize),
	})
	x += ToolbarSlotSize + ToolbarSlotGap
	slots = append(slots, toolbarSlot{
		kind:   "water",
		bounds: image.Rect(x, ToolbarSlotY, x+ToolbarSlotSize, ToolbarSlotY+ToolbarSlotSize),
	})

	s.toolbar = slots
}

// handleToolbarClick 处理工具栏点击（鼠标或触摸），命中槽位时切换工具
func (s *GardenScene) handleToolbarClick() {
	pressed, px, py := utils.IsPointerJustPressed()
	if !pressed {
		return
	}
	pt := image.Pt(px, py)
	for _, slot := range s.toolbar {
		if !pt.In(slot.bounds) {
			continue
		}
		switch slot.kind {
		case "place":
			s.input.SelectPlaceTool(slot.typeID)
		case "remove":
			s.input.SelectRemoveTool()
		case "water":
			s.input.SelectWaterTool()
		}
		// 工具切换要立刻反映在高亮上
		s.scheduler.RequestFrame()
		return
	}
}
