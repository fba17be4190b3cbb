// verify_lighting 昼夜光照曲线的命令行验证
//
// 打印一整天（每 30 分钟一行）的光照快照表，再核对几个关键锚点：
// 正午方向光达到峰值、午夜环境光保底、太阳高度角的昼夜符号。
package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/daynight"
)

var failures int

// check 打印单项核对结果
func check(name string, ok bool, detail string) {
	if ok {
		fmt.Printf("✅ %s\n", name)
	} else {
		fmt.Printf("❌ %s（%s）\n", name, detail)
		failures++
	}
}

// hexOf 把颜色格式化成 #rrggbb
func hexOf(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// luminance 粗略亮度（通道和），够用来比较昼夜明暗
func luminance(c color.RGBA) int {
	return int(c.R) + int(c.G) + int(c.B)
}

// lightingAt 当日 hour:minute 时刻的光照
func lightingAt(hour, minute int) daynight.Lighting {
	return daynight.ComputeLighting(time.Date(2026, 3, 1, hour, minute, 0, 0, time.UTC))
}

func main() {
	fmt.Println("时刻    时段           天空      地面      太阳高度   方向光  环境光  半球光")
	fmt.Println("-----------------------------------------------------------------------------")
	for halfHour := 0; halfHour < 48; halfHour++ {
		hour := halfHour / 2
		minute := (halfHour % 2) * 30
		l := lightingAt(hour, minute)
		elevation := l.SunDirection.Y / config.SunOrbitDistance
		fmt.Printf("%02d:%02d  %-13s  %s  %s  %+.2f      %.2f    %.2f    %.2f\n",
			hour, minute, l.Phase, hexOf(l.Sky), hexOf(l.Ground), elevation,
			l.DirectionalIntensity, l.AmbientIntensity, l.HemisphereIntensity)
	}
	fmt.Println()

	noon := lightingAt(12, 0)
	midnight := lightingAt(0, 0)
	sunrise := lightingAt(6, 0)

	check("午夜处于 night 时段",
		midnight.Phase == "night",
		fmt.Sprintf("phase=%s", midnight.Phase))
	check("上午 10 点处于 morning 时段",
		lightingAt(10, 0).Phase == "morning",
		fmt.Sprintf("phase=%s", lightingAt(10, 0).Phase))
	check("正午方向光达到峰值",
		math.Abs(float64(noon.DirectionalIntensity-config.DirLumensMax)) < 1e-4,
		fmt.Sprintf("dir=%f", noon.DirectionalIntensity))
	check("午夜方向光降到最低",
		math.Abs(float64(midnight.DirectionalIntensity-config.DirLumensMin)) < 1e-4,
		fmt.Sprintf("dir=%f", midnight.DirectionalIntensity))
	check("午夜环境光保底（场景不会全黑）",
		math.Abs(float64(midnight.AmbientIntensity-config.AmbientLumensMin)) < 1e-4,
		fmt.Sprintf("ambient=%f", midnight.AmbientIntensity))
	check("正午天空比午夜亮",
		luminance(noon.Sky) > luminance(midnight.Sky),
		fmt.Sprintf("noon=%d midnight=%d", luminance(noon.Sky), luminance(midnight.Sky)))
	check("正午太阳在地平线上方，午夜在下方",
		noon.SunDirection.Y > 0 && midnight.SunDirection.Y < 0,
		fmt.Sprintf("noonY=%f midnightY=%f", noon.SunDirection.Y, midnight.SunDirection.Y))
	check("六点太阳贴近地平线",
		math.Abs(float64(sunrise.SunDirection.Y/config.SunOrbitDistance)) < 0.01,
		fmt.Sprintf("elevation=%f", sunrise.SunDirection.Y/config.SunOrbitDistance))

	if failures > 0 {
		fmt.Printf("\n❌ %d 项核对未通过\n", failures)
		os.Exit(1)
	}
	fmt.Println("\n✅ 昼夜光照曲线全部核对通过")
}
