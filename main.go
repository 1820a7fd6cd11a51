package main

import (
	"flag"
	"log"

	"github.com/gonewx/msgpace/pkg/app"
	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// 命令行参数
	verbose   = flag.Bool("verbose", false, "显示详细日志")
	skipIntro = flag.Bool("skip-intro", false, "跳过开始界面，直接进入游戏")
	seed      = flag.Int64("seed", 0, "随机日志的种子（0 使用当前时间）")
)

func main() {
	flag.Parse()

	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		SkipIntro: *skipIntro,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.AppName + " v" + config.Version)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatalf("游戏异常退出: %v", err)
	}

	if err := gameApp.Settings().Save(); err != nil {
		log.Printf("[Main] Warning: failed to save settings: %v", err)
	}
}
