// 配置资产检查工具
//
// 读取 assets/config/ 下的对象目录与部件目录 YAML，
// 走和游戏完全相同的解析与校验路径，发布前跑一遍即可
// 发现字段拼写、占地越界、配色串非法这类低级错误。
//
// 用法：
//
//	go run ./cmd/check_config [-dir assets/config]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cogentcore.org/core/colors"

	"github.com/decker502/garden/pkg/config"
)

var failures int

func check(name string, ok bool, detail string) {
	if ok {
		fmt.Printf("  ✅ %s\n", name)
		return
	}
	failures++
	fmt.Printf("  ❌ %s: %s\n", name, detail)
}

func main() {
	dir := flag.String("dir", "assets/config", "配置文件目录")
	flag.Parse()

	fmt.Println("=== 对象目录 objects.yaml ===")
	checkObjectCatalog(filepath.Join(*dir, "objects.yaml"))

	fmt.Println()
	fmt.Println("=== 部件目录 widgets.yaml ===")
	checkWidgetCatalog(filepath.Join(*dir, "widgets.yaml"))

	fmt.Println()
	if failures > 0 {
		fmt.Printf("❌ %d 项检查未通过\n", failures)
		os.Exit(1)
	}
	fmt.Println("✅ 配置资产全部核对通过")
}

func checkObjectCatalog(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		check("读取文件", false, err.Error())
		return
	}
	catalog, err := config.LoadObjectCatalog(data)
	if err != nil {
		check("解析目录", false, err.Error())
		return
	}
	fmt.Printf("  共 %d 个对象类型\n", catalog.Count())

	for _, def := range catalog.All() {
		fp := def.Footprint()
		fmt.Printf("  - %-14s %-8s %dx%d", def.TypeID, def.Category, fp.Rows, fp.Cols)
		if def.IsPlant() {
			fmt.Printf("  生长 %.4f/s  缺水阈值 %.0fs", def.GrowthRatePerSecond, def.ThirstThresholdSeconds)
		}
		fmt.Println()

		check(fmt.Sprintf("%s 占地不超过棋盘", def.TypeID),
			fp.Rows <= config.GridDivisions && fp.Cols <= config.GridDivisions,
			fmt.Sprintf("%dx%d 超出 %d 格棋盘", fp.Rows, fp.Cols, config.GridDivisions))
		check(fmt.Sprintf("%s 主配色可解析", def.TypeID),
			hexParsable(def.BodyColor),
			fmt.Sprintf("bodyColor %q 不是合法 hex 串", def.BodyColor))
		check(fmt.Sprintf("%s 点缀配色可解析", def.TypeID),
			hexParsable(def.AccentColor),
			fmt.Sprintf("accentColor %q 不是合法 hex 串", def.AccentColor))
	}

	// 内置后备目录覆盖的类型，磁盘目录不应悄悄丢掉
	for _, def := range config.DefaultObjectCatalog().All() {
		_, found := catalog.Get(def.TypeID)
		check(fmt.Sprintf("内置类型 %s 在磁盘目录中存在", def.TypeID), found,
			"磁盘目录缺失该类型，旧存档里的对象会无法恢复")
	}
}

func checkWidgetCatalog(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		check("读取文件", false, err.Error())
		return
	}
	catalog, err := config.LoadWidgetCatalog(data)
	if err != nil {
		check("解析目录", false, err.Error())
		return
	}

	all := catalog.All()
	fmt.Printf("  共 %d 种部件\n", len(all))
	for _, def := range all {
		fmt.Printf("  - %-10s %dx%d  %d 个设置项\n", def.Kind, def.SpanRows, def.SpanCols, len(def.Settings))

		// 默认设置必须能通过自身模式的清洗且保持不变
		defaults := def.DefaultSettings()
		clean := def.SanitizeSettings(defaults)
		check(fmt.Sprintf("%s 默认设置通过模式清洗", def.Kind),
			settingsEqual(defaults, clean), "默认值被自身模式改写")
	}

	for _, def := range config.DefaultWidgetCatalog().All() {
		_, found := catalog.Get(def.Kind)
		check(fmt.Sprintf("内置部件 %s 在磁盘目录中存在", def.Kind), found,
			"磁盘目录缺失该种类，旧存档里的部件会无法恢复")
	}
}

func hexParsable(hex string) bool {
	if hex == "" {
		return true // 空串走默认配色
	}
	_, err := colors.FromHex(hex)
	return err == nil
}

func settingsEqual(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
