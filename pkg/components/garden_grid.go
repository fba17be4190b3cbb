// Package components 定义花园实体的数据组件
// 组件只存数据，不含行为；所有逻辑在 systems 和 game 包里
package components

import (
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/ecs"
	"github.com/decker502/garden/pkg/types"
)

// GridCell 单个格子的占用记录
//
// 三种状态：
//   - CellEmpty: 空格子，ID 无意义
//   - CellOrigin: 原点格，ID 指向对象实体
//   - CellAlias: 别名格（多格对象的覆盖格），ID 指向同一个对象实体
//
// 别名恒等式：别名格的 ID 指向的实体，其原点格必然标记为 CellOrigin
// 且也指向该实体。任何一跳解析失败都视为数据损坏，按空格处理
type GridCell struct {
	Kind types.CellKind
	ID   ecs.EntityID
}

// GardenGridComponent 标识花园网格管理器实体
// 跟踪每个格子被哪个对象占用；挂在唯一的网格实体上
type GardenGridComponent struct {
	// Cells 每个格子的占用记录，[row][col] 行优先
	Cells [config.GridDivisions][config.GridDivisions]GridCell
}
