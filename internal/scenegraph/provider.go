// Package scenegraph owns the visual side of placed garden objects.
//
// The rest of the module only ever sees opaque handles: systems acquire a
// visual for a placed object, move it, switch its variant and dispose it,
// without knowing how it is drawn. The provider keeps the handle table and
// renders all live visuals in painter order each frame.
package scenegraph

import (
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/utils"
)

// 新建视觉的入场动画：缩放在若干帧内从起始值缓出到 1
const (
	spawnPopFrames   = 12
	spawnPopMinScale = 0.6
)

// visualNode 一个放置物的视觉实例
type visualNode struct {
	handle    components.VisualHandle
	typeID    string
	variant   components.VisualVariant
	worldX    float64
	worldY    float64
	scale     float64
	rotation  float64
	popFrames int
	sprite    *ebiten.Image
}

// Provider 视觉句柄表与精灵缓存
//
// 句柄从 1 开始单调递增，永不复用，悬空句柄因此总能被识别并忽略。
// 精灵按（类型, 变体）缓存，多株同类植物共享同一张程序化贴图。
type Provider struct {
	nextHandle components.VisualHandle
	nodes      map[components.VisualHandle]*visualNode
	sprites    *spriteCache
}

// NewProvider 创建空的视觉提供者
func NewProvider() *Provider {
	return &Provider{
		nextHandle: components.NoVisual + 1,
		nodes:      make(map[components.VisualHandle]*visualNode),
		sprites:    newSpriteCache(),
	}
}

// CreateVisual 为一个对象类型创建视觉实例
// 参数:
//   - def: 对象类型定义（决定精灵形状与尺寸）
//   - variant: 初始视觉变体
//
// 返回:
//   - components.VisualHandle: 新分配的句柄
//
// 位置与缩放此时未定，调用方随后必须用 PositionVisual 摆放
func (p *Provider) CreateVisual(def *config.ObjectTypeDefinition, variant components.VisualVariant) components.VisualHandle {
	handle := p.nextHandle
	p.nextHandle++

	p.nodes[handle] = &visualNode{
		handle:  handle,
		typeID:  def.TypeID,
		variant: variant,
		scale:   1.0,
		sprite:  p.sprites.get(def, variant),
	}
	return handle
}

// PositionVisual 更新视觉实例的位置、缩放与朝向
// 参数:
//   - handle: 视觉句柄
//   - worldX, worldY: 世界坐标（占地矩形质心）
//   - scale: 整体缩放
//   - rotation: 偏航角（弧度，仅装饰物使用）
func (p *Provider) PositionVisual(handle components.VisualHandle, worldX, worldY, scale, rotation float64) {
	node, ok := p.nodes[handle]
	if !ok {
		log.Printf("[SceneGraph] PositionVisual on unknown handle %d, ignoring", handle)
		return
	}
	node.worldX = worldX
	node.worldY = worldY
	node.scale = scale
	node.rotation = rotation
}

// SetVisualVariant 切换视觉变体（健康/缺水），重新绑定共享精灵
func (p *Provider) SetVisualVariant(handle components.VisualHandle, variant components.VisualVariant) {
	node, ok := p.nodes[handle]
	if !ok {
		log.Printf("[SceneGraph] SetVisualVariant on unknown handle %d, ignoring", handle)
		return
	}
	if node.variant == variant {
		return
	}
	def, found := p.sprites.lookupDef(node.typeID)
	if !found {
		log.Printf("[SceneGraph] No sprite definition cached for %q, keeping old variant", node.typeID)
		return
	}
	node.variant = variant
	node.sprite = p.sprites.get(def, variant)
}

// DisposeVisual 释放一个视觉实例
//
// 每次 CreateVisual 都必须有对应的一次 Dispose，移除对象或场景
// 整体卸载时由调用方保证配对。未知句柄按无操作处理。
func (p *Provider) DisposeVisual(handle components.VisualHandle) {
	if _, ok := p.nodes[handle]; !ok {
		log.Printf("[SceneGraph] DisposeVisual on unknown handle %d, ignoring", handle)
		return
	}
	delete(p.nodes, handle)
}

// DisposeAll 释放全部视觉实例与精灵缓存（场景卸载时调用）
func (p *Provider) DisposeAll() {
	count := len(p.nodes)
	p.nodes = make(map[components.VisualHandle]*visualNode)
	p.sprites.clear()
	if count > 0 {
		log.Printf("[SceneGraph] Disposed %d visuals on teardown", count)
	}
}

// Count 当前存活的视觉实例数（泄漏检查用）
func (p *Provider) Count() int {
	return len(p.nodes)
}

// Animate 推进入场动画一帧，由场景的 Update 每帧调用
//
// 返回:
//   - bool: 仍有未结束的入场动画时为 true（调用方应持续重绘）
func (p *Provider) Animate() bool {
	animating := false
	for _, node := range p.nodes {
		if node.popFrames < spawnPopFrames {
			node.popFrames++
			animating = true
		}
	}
	return animating
}

// popScale 入场动画当前帧的缩放系数，动画结束后恒为 1
func popScale(frames int) float64 {
	if frames >= spawnPopFrames {
		return 1.0
	}
	t := utils.EaseOutQuad(float64(frames) / spawnPopFrames)
	return utils.Lerp(spawnPopMinScale, 1.0, t)
}

// Draw 按画家顺序绘制全部视觉实例
//
// 先按世界 Y 再按句柄排序，保证靠下的对象盖住靠上的对象，
// 且同一行内的绘制顺序帧间稳定。
func (p *Provider) Draw(screen *ebiten.Image) {
	ordered := make([]*visualNode, 0, len(p.nodes))
	for _, node := range p.nodes {
		ordered = append(ordered, node)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].worldY != ordered[j].worldY {
			return ordered[i].worldY < ordered[j].worldY
		}
		return ordered[i].handle < ordered[j].handle
	})

	for _, node := range ordered {
		if node.sprite == nil {
			continue
		}
		screenX, screenY := utils.WorldToScreen(node.worldX, node.worldY)
		w := float64(node.sprite.Bounds().Dx())
		h := float64(node.sprite.Bounds().Dy())

		drawScale := node.scale * popScale(node.popFrames)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-w/2, -h/2)
		if node.rotation != 0 {
			op.GeoM.Rotate(node.rotation)
		}
		op.GeoM.Scale(drawScale, drawScale)
		op.GeoM.Translate(screenX, screenY)
		screen.DrawImage(node.sprite, op)
	}
}
