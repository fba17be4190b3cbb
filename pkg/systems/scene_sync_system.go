package systems

import (
	"log"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/types"
	"github.com/decker502/garden/pkg/utils"
)

// VisualProvider 场景同步系统对视觉层的全部要求
//
// 生产实现是 internal/scenegraph 的程序化精灵提供者，
// 测试里用记录调用的假实现替代，系统本身不依赖 ebiten。
type VisualProvider interface {
	// CreateVisual 创建视觉实例，返回新句柄
	CreateVisual(def *config.ObjectTypeDefinition, variant components.VisualVariant) components.VisualHandle
	// PositionVisual 更新位置、缩放与朝向
	PositionVisual(handle components.VisualHandle, worldX, worldY, scale, rotation float64)
	// SetVisualVariant 切换视觉变体
	SetVisualVariant(handle components.VisualHandle, variant components.VisualVariant)
	// DisposeVisual 释放视觉实例
	DisposeVisual(handle components.VisualHandle)
}

// SceneSyncSystem 把网格世界的状态同步到视觉层
//
// 每个放置物对应一个视觉句柄：放置后首次同步时创建，移除后下一次
// 同步时释放，场景卸载时全量释放。获取与释放严格配对，系统持有
// 句柄登记表，任何路径删掉的实体都会在扫尾阶段被发现并释放句柄，
// 不依赖删除方显式通知。
type SceneSyncSystem struct {
	world    *game.GardenWorld
	provider VisualProvider
	tracked  map[ecs.EntityID]components.VisualHandle
}

// NewSceneSyncSystem 创建场景同步系统
// 参数:
//   - world: 花园世界上下文
//   - provider: 视觉提供者
func NewSceneSyncSystem(world *game.GardenWorld, provider VisualProvider) *SceneSyncSystem {
	return &SceneSyncSystem{
		world:    world,
		provider: provider,
		tracked:  make(map[ecs.EntityID]components.VisualHandle),
	}
}

// Update 执行一轮同步：补建缺失的视觉、刷新位置与变体、清理失效实体
//
// 调用时机在模拟推进之后、绘制之前，保证画面反映的是本帧最新状态
func (s *SceneSyncSystem) Update() {
	em := s.world.EntityManager()
	catalog := s.world.Catalog()

	live := make(map[ecs.EntityID]bool)
	for _, id := range ecs.GetEntitiesWith1[*components.GardenObjectComponent](em) {
		obj, ok := ecs.GetComponent[*components.GardenObjectComponent](em, id)
		if !ok {
			continue
		}
		live[id] = true

		def, found := catalog.Get(obj.TypeID)
		if !found {
			// 放置与反序列化都校验过类型，正常情况下到不了这里
			continue
		}

		variant := s.variantFor(id, obj)

		handle, tracked := s.tracked[id]
		if !tracked {
			handle = s.provider.CreateVisual(def, variant)
			s.tracked[id] = handle
			ecs.AddComponent(em, id, &components.VisualComponent{Handle: handle})
			log.Printf("[SceneSync] Visual %d acquired for %q at (%d,%d)", handle, obj.TypeID, obj.OriginRow, obj.OriginCol)
		} else {
			s.provider.SetVisualVariant(handle, variant)
		}

		worldX, worldY := utils.AreaCentroidWorld(obj.Origin(), obj.Footprint())
		s.provider.PositionVisual(handle, worldX, worldY, s.scaleFor(id, def), s.rotationFor(id))
	}

	// 扫尾：登记表里已不在世界中的实体，释放其句柄
	for id, handle := range s.tracked {
		if live[id] {
			continue
		}
		s.provider.DisposeVisual(handle)
		delete(s.tracked, id)
		log.Printf("[SceneSync] Visual %d released for entity %d", handle, id)
	}
}

// Teardown 场景卸载：释放全部句柄并清空实体上的视觉组件
func (s *SceneSyncSystem) Teardown() {
	em := s.world.EntityManager()
	for id, handle := range s.tracked {
		s.provider.DisposeVisual(handle)
		if ecs.HasComponent[*components.VisualComponent](em, id) {
			ecs.RemoveComponent[*components.VisualComponent](em, id)
		}
	}
	s.tracked = make(map[ecs.EntityID]components.VisualHandle)
}

// TrackedCount 当前登记的视觉数量（泄漏检查用）
func (s *SceneSyncSystem) TrackedCount() int {
	return len(s.tracked)
}

// variantFor 按对象状态决定视觉变体
func (s *SceneSyncSystem) variantFor(id ecs.EntityID, obj *components.GardenObjectComponent) components.VisualVariant {
	if obj.Category != types.CategoryPlant {
		return components.VariantDecor
	}
	state, ok := ecs.GetComponent[*components.PlantStateComponent](s.world.EntityManager(), id)
	if ok && state.Health == types.HealthNeedsWater {
		return components.VariantThirsty
	}
	return components.VariantHealthy
}

// scaleFor 植物缩放随生长进度在最小/最大缩放间线性插值
func (s *SceneSyncSystem) scaleFor(id ecs.EntityID, def *config.ObjectTypeDefinition) float64 {
	if !def.IsPlant() {
		return 1.0
	}
	state, ok := ecs.GetComponent[*components.PlantStateComponent](s.world.EntityManager(), id)
	if !ok {
		return def.MaxScale
	}
	return utils.Lerp(def.MinScale, def.MaxScale, state.GrowthProgress)
}

// rotationFor 装饰物使用放置时随机到的偏航角，植物不旋转
func (s *SceneSyncSystem) rotationFor(id ecs.EntityID) float64 {
	decor, ok := ecs.GetComponent[*components.DecorStateComponent](s.world.EntityManager(), id)
	if !ok {
		return 0
	}
	return decor.RotationY
}
