package utils

import (
	"math"

	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/types"
)

// 网格与世界坐标换算
//
// 世界坐标系以种植平面中心为原点，X 向右、Y 向下，单位与屏幕像素一致；
// 屏幕坐标系以窗口左上角为原点。格子行列均从平面左上角数起。

// GridToWorld 将网格坐标转换为该格中心的世界坐标
// 参数:
//   - row, col: 行列索引
//
// 返回:
//   - worldX, worldY: 格子中心的世界坐标
func GridToWorld(row, col int) (worldX, worldY float64) {
	worldX = (float64(col)+0.5)*config.CellSize - config.PlaneHalf
	worldY = (float64(row)+0.5)*config.CellSize - config.PlaneHalf
	return worldX, worldY
}

// AreaCentroidWorld 计算一片占地矩形的质心世界坐标
//
// 多格对象的视觉应落在整个占地矩形的中心，而不是原点格的中心：
// 2x2 的灌木看起来要骑在四个格子的交点上。
// 参数:
//   - origin: 占地矩形的原点格（左上角）
//   - footprint: 占地行列数
//
// 返回:
//   - worldX, worldY: 矩形质心的世界坐标
func AreaCentroidWorld(origin types.GridCoord, footprint types.Footprint) (worldX, worldY float64) {
	firstX, firstY := GridToWorld(origin.Row, origin.Col)
	lastX, lastY := GridToWorld(origin.Row+footprint.Rows-1, origin.Col+footprint.Cols-1)
	return (firstX + lastX) / 2, (firstY + lastY) / 2
}

// WorldToGrid 将世界坐标反算为网格坐标
// 参数:
//   - worldX, worldY: 世界坐标
//
// 返回:
//   - row, col: 行列索引
//   - ok: 点是否落在网格内；网格外返回 false，不做钳制
//
// 注意负坐标不能用 int 截断（-0.3 会错误落到第 0 格），必须先取 floor
func WorldToGrid(worldX, worldY float64) (row, col int, ok bool) {
	fc := math.Floor((worldX + config.PlaneHalf) / config.CellSize)
	fr := math.Floor((worldY + config.PlaneHalf) / config.CellSize)
	if fr < 0 || fr >= config.GridDivisions || fc < 0 || fc >= config.GridDivisions {
		return 0, 0, false
	}
	return int(fr), int(fc), true
}

// WorldToScreen 将世界坐标转换为屏幕坐标
func WorldToScreen(worldX, worldY float64) (screenX, screenY float64) {
	screenX = config.PlaneScreenOriginX + worldX + config.PlaneHalf
	screenY = config.PlaneScreenOriginY + worldY + config.PlaneHalf
	return screenX, screenY
}

// ScreenToWorld 将屏幕坐标转换为世界坐标
func ScreenToWorld(screenX, screenY float64) (worldX, worldY float64) {
	worldX = screenX - config.PlaneScreenOriginX - config.PlaneHalf
	worldY = screenY - config.PlaneScreenOriginY - config.PlaneHalf
	return worldX, worldY
}

// MouseToGridCoords 将指针屏幕坐标转换为网格坐标
// 参数:
//   - mouseX, mouseY: 指针的屏幕坐标
//
// 返回:
//   - row, col: 行列索引
//   - ok: 是否落在种植平面内
func MouseToGridCoords(mouseX, mouseY float64) (row, col int, ok bool) {
	worldX, worldY := ScreenToWorld(mouseX, mouseY)
	return WorldToGrid(worldX, worldY)
}

// GridToScreenCoords 将网格坐标转换为该格中心的屏幕坐标
// 参数:
//   - row, col: 行列索引
//
// 返回:
//   - centerX, centerY: 格子中心的屏幕坐标
func GridToScreenCoords(row, col int) (centerX, centerY float64) {
	worldX, worldY := GridToWorld(row, col)
	return WorldToScreen(worldX, worldY)
}
