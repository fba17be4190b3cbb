package utils

import (
	"math"
	"testing"

	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/types"
)

const coordEpsilon = 1e-9

// TestGridToWorld 测试网格坐标到世界坐标的转换
func TestGridToWorld(t *testing.T) {
	tests := []struct {
		name       string
		row, col   int
		wantX      float64
		wantY      float64
	}{
		// 世界原点在平面中心：左上角格中心 = (-平面半宽 + 半格, ...)
		{"左上角格子", 0, 0, -config.PlaneHalf + config.CellSize/2, -config.PlaneHalf + config.CellSize/2},
		{"右下角格子", config.GridDivisions - 1, config.GridDivisions - 1, config.PlaneHalf - config.CellSize/2, config.PlaneHalf - config.CellSize/2},
		{"第二行第四列", 1, 3, 3.5*config.CellSize - config.PlaneHalf, 1.5*config.CellSize - config.PlaneHalf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := GridToWorld(tt.row, tt.col)
			if math.Abs(gotX-tt.wantX) > coordEpsilon || math.Abs(gotY-tt.wantY) > coordEpsilon {
				t.Errorf("GridToWorld(%d,%d) = (%f,%f), want (%f,%f)", tt.row, tt.col, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

// TestWorldToGrid 测试世界坐标反算网格坐标与出界判定
func TestWorldToGrid(t *testing.T) {
	tests := []struct {
		name     string
		worldX   float64
		worldY   float64
		wantRow  int
		wantCol  int
		wantOK   bool
	}{
		{"平面左上角", -config.PlaneHalf, -config.PlaneHalf, 0, 0, true},
		{"左上角格子中心", -config.PlaneHalf + config.CellSize/2, -config.PlaneHalf + config.CellSize/2, 0, 0, true},
		{"右下边界内侧", config.PlaneHalf - 0.001, config.PlaneHalf - 0.001, config.GridDivisions - 1, config.GridDivisions - 1, true},
		// 右下边界本身按出界处理（半开区间）
		{"右下边界", config.PlaneHalf, config.PlaneHalf, 0, 0, false},
		// 负方向出界不能被 int 截断吞掉
		{"左侧出界半格", -config.PlaneHalf - config.CellSize/2, 0, 0, 0, false},
		{"上方出界一点", 0, -config.PlaneHalf - 0.3, 0, 0, false},
		{"远处出界", 10000, 10000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := WorldToGrid(tt.worldX, tt.worldY)
			if ok != tt.wantOK {
				t.Fatalf("WorldToGrid(%f,%f) ok = %v, want %v", tt.worldX, tt.worldY, ok, tt.wantOK)
			}
			if ok && (row != tt.wantRow || col != tt.wantCol) {
				t.Errorf("WorldToGrid(%f,%f) = (%d,%d), want (%d,%d)", tt.worldX, tt.worldY, row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

// TestAreaCentroidWorld 测试多格占地的质心计算
func TestAreaCentroidWorld(t *testing.T) {
	// 1x1：质心就是格子中心
	cx, cy := AreaCentroidWorld(types.GridCoord{Row: 4, Col: 7}, types.Footprint{Rows: 1, Cols: 1})
	wx, wy := GridToWorld(4, 7)
	if math.Abs(cx-wx) > coordEpsilon || math.Abs(cy-wy) > coordEpsilon {
		t.Errorf("1x1 centroid = (%f,%f), want cell center (%f,%f)", cx, cy, wx, wy)
	}

	// 2x2：质心落在四格交点上，即原点格中心向右下各偏移半格
	cx, cy = AreaCentroidWorld(types.GridCoord{Row: 2, Col: 3}, types.Footprint{Rows: 2, Cols: 2})
	wx, wy = GridToWorld(2, 3)
	if math.Abs(cx-(wx+config.CellSize/2)) > coordEpsilon || math.Abs(cy-(wy+config.CellSize/2)) > coordEpsilon {
		t.Errorf("2x2 centroid = (%f,%f), want (%f,%f)", cx, cy, wx+config.CellSize/2, wy+config.CellSize/2)
	}

	// 1x2 横排：质心只在 X 方向偏移
	cx, cy = AreaCentroidWorld(types.GridCoord{Row: 5, Col: 5}, types.Footprint{Rows: 1, Cols: 2})
	wx, wy = GridToWorld(5, 5)
	if math.Abs(cx-(wx+config.CellSize/2)) > coordEpsilon || math.Abs(cy-wy) > coordEpsilon {
		t.Errorf("1x2 centroid = (%f,%f), want (%f,%f)", cx, cy, wx+config.CellSize/2, wy)
	}
}

// TestMouseToGridCoords 测试指针屏幕坐标到网格坐标的换算
func TestMouseToGridCoords(t *testing.T) {
	planeLeft := float64(config.PlaneScreenOriginX)
	planeTop := float64(config.PlaneScreenOriginY)
	cell := float64(config.CellSize)

	tests := []struct {
		name    string
		mouseX  float64
		mouseY  float64
		wantRow int
		wantCol int
		wantOK  bool
	}{
		{"左上角第一个格子", planeLeft + cell/2, planeTop + cell/2, 0, 0, true},
		{"平面左上角边界点", planeLeft, planeTop, 0, 0, true},
		{"右下角最后一个格子", planeLeft + (config.GridDivisions-1)*cell + cell/2, planeTop + (config.GridDivisions-1)*cell + cell/2, config.GridDivisions - 1, config.GridDivisions - 1, true},
		{"平面左侧外一像素", planeLeft - 1, planeTop + cell, 0, 0, false},
		{"平面上方工具栏区域", planeLeft + cell, planeTop - 10, 0, 0, false},
		{"平面右下角外侧", planeLeft + config.GridDivisions*cell, planeTop + config.GridDivisions*cell, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := MouseToGridCoords(tt.mouseX, tt.mouseY)
			if ok != tt.wantOK {
				t.Fatalf("MouseToGridCoords(%.0f,%.0f) ok = %v, want %v", tt.mouseX, tt.mouseY, ok, tt.wantOK)
			}
			if ok && (row != tt.wantRow || col != tt.wantCol) {
				t.Errorf("MouseToGridCoords(%.0f,%.0f) = (%d,%d), want (%d,%d)", tt.mouseX, tt.mouseY, row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

// TestGridScreenRoundTrip 全网格扫描：格子中心的屏幕坐标必须反算回同一格
func TestGridScreenRoundTrip(t *testing.T) {
	for row := 0; row < config.GridDivisions; row++ {
		for col := 0; col < config.GridDivisions; col++ {
			sx, sy := GridToScreenCoords(row, col)
			gotRow, gotCol, ok := MouseToGridCoords(sx, sy)
			if !ok {
				t.Fatalf("Cell (%d,%d) center (%f,%f) reported outside grid", row, col, sx, sy)
			}
			if gotRow != row || gotCol != col {
				t.Errorf("Round trip (%d,%d) -> (%f,%f) -> (%d,%d)", row, col, sx, sy, gotRow, gotCol)
			}
		}
	}
}
