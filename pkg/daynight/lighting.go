// Package daynight 实现昼夜循环光照引擎。
//
// 核心入口是纯函数 ComputeLighting：给定任意时刻，直接算出该时刻的
// 天空颜色、地面色调、太阳方位与三类光源强度。函数无内部状态、无副作用，
// 长时间空闲后补调一次即可得到正确画面，不存在漂移或漏过渡的问题。
package daynight

import (
	"image/color"
	"math"
	"time"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"

	"github.com/decker502/garden/pkg/config"
)

// Lighting 某一时刻的完整光照快照
type Lighting struct {
	// Phase 当前时段名称（如 "morning"、"night"）
	Phase string
	// Sky 天空颜色
	Sky color.RGBA
	// Ground 地面色调（乘到地面基色上，白色表示无染色）
	Ground color.RGBA
	// SunDirection 太阳相对场景中心的方位向量（已乘轨道距离）
	SunDirection math32.Vector3
	// DirectionalIntensity 方向光（太阳）强度
	DirectionalIntensity float32
	// AmbientIntensity 环境光强度
	AmbientIntensity float32
	// HemisphereIntensity 半球光（天光/地光过渡）强度
	HemisphereIntensity float32
}

// ComputeLighting 计算 now 时刻的光照
// 参数:
//   - now: 任意时刻（使用其所在时区的当日时间）
//
// 返回:
//   - Lighting: 该时刻的光照快照
//
// 计算分三步：
//  1. 在七个颜色关键帧中定位当前时段，段内对天空色和地面色线性插值，
//     夜晚时段跨午夜（20:30 → 次日 05:30）按环形处理；
//  2. 太阳沿连续圆轨道运行：angle = (cycleFraction - 0.25) * 2π，
//     06:00 时 angle≈0 对应日出在地平线；
//  3. 光强随 max(0, sin(angle)) 在各光型的最小/最大亮度间线性映射，
//     太阳落山后保持最低亮度，场景永远不会全黑。
func ComputeLighting(now time.Time) Lighting {
	hours := hoursOfDay(now)
	cycleFraction := hours / 24.0

	phase, next, t := phaseSegment(hours)

	angle := (cycleFraction - 0.25) * 2 * math.Pi
	daylight := float32(math.Max(0, math.Sin(angle)))

	sun := math32.Vec3(
		math32.Cos(float32(angle)),
		math32.Sin(float32(angle)),
		config.SunOrbitTilt,
	).MulScalar(config.SunOrbitDistance)

	return Lighting{
		Phase:                phase.Name,
		Sky:                  lerpColor(phase.Sky, next.Sky, t),
		Ground:               lerpColor(phase.Ground, next.Ground, t),
		SunDirection:         sun,
		DirectionalIntensity: math32.Lerp(config.DirLumensMin, config.DirLumensMax, daylight),
		AmbientIntensity:     math32.Lerp(config.AmbientLumensMin, config.AmbientLumensMax, daylight),
		HemisphereIntensity:  math32.Lerp(config.HemiLumensMin, config.HemiLumensMax, daylight),
	}
}

// hoursOfDay 返回 now 在当日内的小时数（含小数部分，[0, 24)）
func hoursOfDay(now time.Time) float64 {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight).Hours()
}

// phaseSegment 定位 hours 所在的时段
// 返回:
//   - DayPhase: 当前时段（起点关键帧）
//   - DayPhase: 下一时段（终点关键帧）
//   - float32: 段内插值参数 t ∈ [0,1]
//
// 关键帧表按起始时刻升序；hours 早于首帧（凌晨）时落入跨午夜的夜晚时段
func phaseSegment(hours float64) (config.DayPhase, config.DayPhase, float32) {
	table := config.DayPhaseTable
	idx := len(table) - 1
	for i, p := range table {
		if hours >= p.StartHour {
			idx = i
		}
	}

	phase := table[idx]
	next := table[(idx+1)%len(table)]

	start := phase.StartHour
	end := next.StartHour
	if end <= start {
		// 跨午夜时段：终点推到次日
		end += 24
	}
	h := hours
	if h < start {
		h += 24
	}

	t := (h - start) / (end - start)
	t = math.Min(math.Max(t, 0), 1)
	return phase, next, float32(t)
}

// lerpColor 在两个颜色间按 t 线性插值（t=0 返回 from，t=1 返回 to）
func lerpColor(from, to color.RGBA, t float32) color.RGBA {
	return colors.BlendRGB((1-t)*100, from, to)
}
