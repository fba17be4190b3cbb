// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// ObjectCategory 定义可放置对象的大类
type ObjectCategory int

const (
	// CategoryUnknown 未知类别
	CategoryUnknown ObjectCategory = iota
	// CategoryPlant 植物：参与生长与缺水模拟
	CategoryPlant
	// CategoryDecor 装饰物：静态摆件，不参与模拟
	CategoryDecor
)

// String 返回类别的字符串表示（同时用于存档序列化）
func (c ObjectCategory) String() string {
	switch c {
	case CategoryPlant:
		return "plant"
	case CategoryDecor:
		return "decor"
	default:
		return "unknown"
	}
}

// ParseObjectCategory 从字符串解析对象类别
// 未知字符串返回 CategoryUnknown，由调用方决定如何处理
func ParseObjectCategory(s string) ObjectCategory {
	switch s {
	case "plant":
		return CategoryPlant
	case "decor":
		return CategoryDecor
	default:
		return CategoryUnknown
	}
}

// PlantHealth 定义植物的健康状态
// 状态只有两个：健康、缺水。缺水后不会自动恢复，必须浇水
type PlantHealth int

const (
	// HealthHealthy 健康状态，正常生长
	HealthHealthy PlantHealth = iota
	// HealthNeedsWater 缺水状态，生长暂停
	HealthNeedsWater
)

// String 返回健康状态的字符串表示（同时用于存档序列化）
func (h PlantHealth) String() string {
	switch h {
	case HealthNeedsWater:
		return "needs_water"
	default:
		return "healthy"
	}
}

// ParsePlantHealth 从字符串解析健康状态
// 无法识别的字符串按健康处理（存档向后兼容）
func ParsePlantHealth(s string) PlantHealth {
	if s == "needs_water" {
		return HealthNeedsWater
	}
	return HealthHealthy
}

// GridCoord 网格坐标（行优先，左上角为原点）
type GridCoord struct {
	Row int
	Col int
}

// Footprint 对象占地尺寸（行数 × 列数）
// 1x1 为最普通的尺寸；灌木等大型对象可占 2x2
type Footprint struct {
	Rows int
	Cols int
}

// CellCount 返回占地覆盖的格子总数
func (f Footprint) CellCount() int {
	return f.Rows * f.Cols
}

// CellKind 网格单元占用状态的标签
//
// 多格对象只在原点格（左上角）存放完整数据，
// 其余覆盖格写入别名标签，指回同一个实体
type CellKind int

const (
	// CellEmpty 空格子
	CellEmpty CellKind = iota
	// CellOrigin 原点格：对象数据挂在此格指向的实体上
	CellOrigin
	// CellAlias 别名格：多格对象的非原点覆盖格
	CellAlias
)

// String 返回单元标签的字符串表示
func (k CellKind) String() string {
	switch k {
	case CellOrigin:
		return "origin"
	case CellAlias:
		return "alias"
	default:
		return "empty"
	}
}
