// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/embedded"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/scenes"
	"github.com/decker502/garden/pkg/utils"
)

// 嵌入的目录文件路径
const (
	objectCatalogPath = "assets/config/objects.yaml"
	widgetCatalogPath = "assets/config/widgets.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// FreshGarden 忽略现有花园存档，从空花园开始
	// 旧存档在首次修改落盘时被覆盖
	FreshGarden bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// Android 上 gdata 不会预创建存储目录，必须先保证可写
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Storage directory not writable, saves may fail: %v", err)
	}

	// 打开跨平台存储；失败进入降级模式（仅内存，无持久化）
	var gdataManager *gdata.Manager
	if manager, err := gdata.Open(gdata.Config{AppName: "garden"}); err != nil {
		log.Printf("[App] Persistent storage unavailable, running memory-only: %v", err)
	} else {
		gdataManager = manager
	}

	// 设置最先加载：VerboseLogging 打开时恢复日志输出
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}
	if settings.GetSettings().VerboseLogging && !cfg.Verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
		log.Printf("[App] Verbose logging enabled from settings")
	}

	// 对象目录与部件目录来自嵌入资源，损坏时退回内置默认值
	catalog := loadObjectCatalog()
	widgetCatalog := loadWidgetCatalog()

	// 花园世界用真实墙上时钟驱动：生长按绝对时间推进，
	// 关闭期间流逝的时间在载入后的首个模拟帧入账
	world := game.NewGardenWorld(catalog, game.SystemClock{})
	worldManager := game.NewGardenWorldManager(gdataManager, world)
	if cfg.FreshGarden {
		log.Printf("[App] FreshGarden enabled, skipping garden save")
	} else if err := worldManager.Load(); err != nil {
		// Load 内部已落到空网格，这里只记录原因
		log.Printf("[App] Garden save unusable: %v", err)
	}

	inventory, err := game.NewInventoryManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inventory: %w", err)
	}
	widgets, err := game.NewWidgetManager(gdataManager, widgetCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize widgets: %w", err)
	}

	// 创建场景管理器并进入花园场景
	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scenes.NewGardenScene(world, worldManager, settings, inventory, widgets))

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

// loadObjectCatalog 从嵌入资源加载对象目录
// 文件缺失或损坏时退回内置默认目录，保证应用总能启动
func loadObjectCatalog() *config.ObjectCatalog {
	data, err := embedded.ReadFile(objectCatalogPath)
	if err != nil {
		log.Printf("[App] Embedded object catalog unavailable, using built-in defaults: %v", err)
		return config.DefaultObjectCatalog()
	}
	catalog, err := config.LoadObjectCatalog(data)
	if err != nil {
		log.Printf("[App] Failed to parse object catalog, using built-in defaults: %v", err)
		return config.DefaultObjectCatalog()
	}
	log.Printf("[App] Object catalog loaded: %d types", catalog.Count())
	return catalog
}

// loadWidgetCatalog 从嵌入资源加载部件目录
// 文件缺失或损坏时退回内置默认目录
func loadWidgetCatalog() *config.WidgetCatalog {
	data, err := embedded.ReadFile(widgetCatalogPath)
	if err != nil {
		log.Printf("[App] Embedded widget catalog unavailable, using built-in defaults: %v", err)
		return config.DefaultWidgetCatalog()
	}
	catalog, err := config.LoadWidgetCatalog(data)
	if err != nil {
		log.Printf("[App] Failed to parse widget catalog, using built-in defaults: %v", err)
		return config.DefaultWidgetCatalog()
	}
	log.Printf("[App] Widget catalog loaded: %d kinds", len(catalog.All()))
	return catalog
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（桌面端）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		isFullscreen := ebiten.IsFullscreen()
		if isFullscreen {
			// 退出全屏
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制游戏画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear // 使用线性滤波减少锯齿和模糊
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 在游戏退出时保存状态并释放场景资源
//
// 桌面端在 RunGame 返回后调用；移动端没有可靠的退出钩子，
// 依赖修改即时落盘的写通策略兜底
func (a *App) Shutdown() {
	scene := a.sceneManager.GetCurrentScene()
	if scene == nil {
		return
	}
	if saveable, ok := scene.(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Exit save failed, latest changes may be lost")
		}
	}
	if teardownable, ok := scene.(game.Teardownable); ok {
		teardownable.Teardown()
	}
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存存档
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
