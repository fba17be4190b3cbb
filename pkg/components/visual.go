package components

// VisualHandle 场景图中视觉实例的不透明句柄
// 由视觉提供者分配，0 表示尚未创建视觉
type VisualHandle int64

// NoVisual 无效视觉句柄
const NoVisual VisualHandle = 0

// VisualVariant 视觉变体
// 同一对象的精灵随状态切换：健康植物、缺水植物、装饰物
type VisualVariant int

const (
	// VariantHealthy 健康植物外观
	VariantHealthy VisualVariant = iota
	// VariantThirsty 缺水植物外观（枯黄色调）
	VariantThirsty
	// VariantDecor 装饰物外观（不随状态变化）
	VariantDecor
)

// VisualComponent 对象当前的视觉句柄
//
// 瞬态组件：只存在于运行期，永远不会被序列化。
// 存档恢复后由场景同步系统重新创建视觉并填充句柄
type VisualComponent struct {
	Handle VisualHandle
}
