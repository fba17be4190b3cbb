package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/garden/pkg/app"
	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	fresh := flag.Bool("fresh", false, "ignore the existing garden save and start empty")
	flag.Parse()

	// 初始化嵌入资源（embed.FS 声明在 embed.go）
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		FreshGarden: *fresh,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	// Set window properties
	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("桌面花园 Desktop Garden")

	// Start the game loop
	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}

	// 窗口关闭后做一次最终保存并释放场景持有的视觉句柄
	gameApp.Shutdown()
}
