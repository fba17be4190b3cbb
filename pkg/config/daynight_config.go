package config

import (
	"image/color"

	"cogentcore.org/core/colors"
)

// 昼夜循环配置
// 一天被划分为 7 个连续时段，按真实墙上时钟推进。
// 每个时段给出起始时刻的天空颜色和地面色调（颜色关键帧），
// 时段内部向下一时段的起始颜色线性插值，整条颜色曲线连续无跳变。

// DayPhase 一天中的一个光照时段
type DayPhase struct {
	// Name 时段名称
	Name string
	// StartHour 时段起始时刻（0~24 小时，支持半小时粒度）
	StartHour float64
	// Sky 时段起始时刻的天空颜色
	Sky color.RGBA
	// Ground 时段起始时刻的地面色调（白色表示无染色）
	Ground color.RGBA
}

// mustFromHex 解析 hex 配色串，失败时 panic（仅用于包内常量表）
func mustFromHex(hex string) color.RGBA {
	c, err := colors.FromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// DayPhaseTable 七个时段按起始时刻升序排列
//
// 日出在 6:30、日落在 19:30 达到峰值色；
// 夜晚时段从 20:30 跨午夜延续到次日 05:30
var DayPhaseTable = []DayPhase{
	{Name: "sunrise_rise", StartHour: 5.5, Sky: mustFromHex("#1a2340"), Ground: mustFromHex("#6b7390")},
	{Name: "sunrise_fall", StartHour: 6.5, Sky: mustFromHex("#ff9966"), Ground: mustFromHex("#e8b88a")},
	{Name: "morning", StartHour: 7.5, Sky: mustFromHex("#87ceeb"), Ground: mustFromHex("#ffffff")},
	{Name: "afternoon", StartHour: 13.0, Sky: mustFromHex("#79c2ef"), Ground: mustFromHex("#fff8e7")},
	{Name: "sunset_rise", StartHour: 18.5, Sky: mustFromHex("#ffc078"), Ground: mustFromHex("#ffe0b3")},
	{Name: "sunset_fall", StartHour: 19.5, Sky: mustFromHex("#ff7e5f"), Ground: mustFromHex("#eb9a76")},
	{Name: "night", StartHour: 20.5, Sky: mustFromHex("#0b1026"), Ground: mustFromHex("#3a4166")},
}

// 太阳轨道与光照强度配置
const (
	// SunOrbitDistance 太阳到场景中心的距离（世界单位）
	SunOrbitDistance = 600.0

	// SunOrbitTilt 太阳轨道在 Z 轴上的倾斜分量
	// 不为零可避免正午时分方向光完全垂直，阴影仍有朝向
	SunOrbitTilt = 0.25

	// AmbientLumensMin 环境光最低亮度（夜晚，场景不会全黑）
	AmbientLumensMin = 0.35
	// AmbientLumensMax 环境光最高亮度（正午）
	AmbientLumensMax = 1.0

	// DirLumensMin 方向光（太阳）最低亮度
	DirLumensMin = 0.0
	// DirLumensMax 方向光（太阳）最高亮度
	DirLumensMax = 2.2

	// HemiLumensMin 半球光最低亮度（夜晚保底的天光/地光过渡）
	HemiLumensMin = 0.15
	// HemiLumensMax 半球光最高亮度（正午）
	HemiLumensMax = 0.6
)
