package components

// DecorStateComponent 装饰物的静态属性
// 装饰物不参与模拟，只有摆放朝向
type DecorStateComponent struct {
	// RotationY 绕垂直轴的朝向（弧度），放置时随机或由用户旋转
	RotationY float64
}
