package components

import "github.com/decker502/garden/pkg/types"

// GardenObjectComponent 标识实体为已放置的花园对象
// 记录对象类型与其在网格中的落位，网格与对象互相可逆向查找
type GardenObjectComponent struct {
	// TypeID 对象类型标识（目录键）
	TypeID string
	// Category 对象大类（植物 / 装饰物）
	Category types.ObjectCategory
	// OriginRow / OriginCol 原点格（占地左上角）
	OriginRow int
	OriginCol int
	// FootprintRows / FootprintCols 占地尺寸
	// 放置时从目录定义复制，目录热更新不影响已放置对象
	FootprintRows int
	FootprintCols int
}

// Origin 返回原点格坐标
func (c *GardenObjectComponent) Origin() types.GridCoord {
	return types.GridCoord{Row: c.OriginRow, Col: c.OriginCol}
}

// Footprint 返回占地尺寸
func (c *GardenObjectComponent) Footprint() types.Footprint {
	return types.Footprint{Rows: c.FootprintRows, Cols: c.FootprintCols}
}

// Covers 判断指定格子是否在该对象的占地范围内
func (c *GardenObjectComponent) Covers(row, col int) bool {
	return row >= c.OriginRow && row < c.OriginRow+c.FootprintRows &&
		col >= c.OriginCol && col < c.OriginCol+c.FootprintCols
}
