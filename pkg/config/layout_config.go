package config

// 布局配置常量
// 本文件定义花园场景的布局参数：窗口尺寸、地面网格与世界坐标系的映射

// 窗口配置
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 600
)

// Garden Grid Configuration (花园网格配置)
//
// 花园是一块正方形地面，被均分为 GridDivisions × GridDivisions 个格子。
// "世界坐标系"以地面中心为原点：X 向右，Z 向下（俯视图），
// 这样日照方向向量和场景对象共用同一坐标系。
const (
	// GridDivisions 网格每边的格子数
	GridDivisions = 12

	// PlaneSize 地面边长（世界单位）
	PlaneSize = 480.0

	// CellSize 每个格子的边长（世界单位）
	// 计算方式：地面边长 / 每边格子数 = 480 / 12 = 40
	CellSize = PlaneSize / GridDivisions

	// PlaneHalf 地面边长的一半，格子坐标换算的公共偏移
	PlaneHalf = PlaneSize / 2.0

	// PlaneScreenOriginX 地面左上角在屏幕上的X坐标（像素）
	// 计算方式：(窗口宽 - 地面边长) / 2 = (800 - 480) / 2 = 160，水平居中
	PlaneScreenOriginX = 160.0

	// PlaneScreenOriginY 地面左上角在屏幕上的Y坐标（像素）
	// 顶部留 40px 给时钟等悬浮部件，底部留 80px 给工具栏
	PlaneScreenOriginY = 40.0
)

// Widget Overlay Grid (悬浮部件网格)
//
// 悬浮部件（时钟、天气、便签）吸附在铺满整个窗口的粗网格上，
// 与花园地面网格无关
const (
	// WidgetCellSize 部件网格格子边长（像素）
	WidgetCellSize = 50.0

	// WidgetGridCols 部件网格列数：窗口宽 / 格子边长 = 800 / 50 = 16
	WidgetGridCols = 16

	// WidgetGridRows 部件网格行数：窗口高 / 格子边长 = 600 / 50 = 12
	WidgetGridRows = 12
)

// GetPlaneScreenBounds 返回地面在屏幕上的边界
// 返回值：startX, startY, endX, endY（像素）
func GetPlaneScreenBounds() (float64, float64, float64, float64) {
	return PlaneScreenOriginX, PlaneScreenOriginY,
		PlaneScreenOriginX + PlaneSize, PlaneScreenOriginY + PlaneSize
}

// InGridBounds 检查网格坐标是否落在花园内
func InGridBounds(row, col int) bool {
	return row >= 0 && row < GridDivisions && col >= 0 && col < GridDivisions
}
