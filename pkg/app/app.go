// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/embedded"
	"github.com/gonewx/msgpace/pkg/fonter"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/gonewx/msgpace/pkg/msgbuf"
	"github.com/gonewx/msgpace/pkg/scenes"
	"github.com/gonewx/msgpace/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// SkipIntro 跳过开始界面，直接进入游戏
	SkipIntro bool
	// Seed 随机日志的种子，0 表示使用当前时间
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	stack    *game.StateStack
	settings *game.SettingsManager

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

	// 持久化设置，存储不可用时降级为内存设置
	settings, _ := game.NewSettingsManager(openStorage())

	bufCfg := LoadBufferConfig(settings)

	table, err := game.LoadStringTable(game.StringsPath)
	if err != nil {
		// 没有字符串表时场景直接显示键名
		log.Printf("[App] Warning: %v", err)
		table = nil
	} else {
		log.Printf("[App] Loaded %d strings", table.Len())
	}

	face, err := fonter.NewDefaultFace(fonter.DefaultFontSize)
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	audioContext := audio.NewContext(game.AudioSampleRate)
	waves := game.NewWavePlayer(audioContext, settings)
	log.Printf("[App] WavePlayer initialized")

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	stack := game.NewStateStack()
	var newIntro, newGame func() game.Scene
	newGame = func() game.Scene {
		return scenes.NewGameScene(stack, face, table, settings, bufCfg, newIntro, seed)
	}
	newIntro = func() game.Scene {
		return scenes.NewIntroScene(stack, face, waves, newGame)
	}

	if cfg.SkipIntro {
		log.Printf("[App] SkipIntro enabled, starting game scene")
		stack.Push(newGame())
	} else {
		stack.Push(newIntro())
	}

	if settings.GetSettings().Fullscreen && !utils.IsMobile() {
		ebiten.SetFullscreen(true)
	}

	return &App{
		stack:    stack,
		settings: settings,
	}, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: config.AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		return nil
	}
	return manager
}

// LoadBufferConfig 读取嵌入的 data/message_buffer.yaml 并应用玩家设置的阅读速度
// 配置缺失或无效时使用默认配置
func LoadBufferConfig(settings *game.SettingsManager) msgbuf.Config {
	mbCfg := config.DefaultMessageBufferConfig()
	data, err := embedded.ReadFile(config.MessageBufferConfigPath)
	if err == nil {
		var parsed *config.MessageBufferConfig
		parsed, err = config.ParseMessageBufferConfig(data)
		if err == nil {
			mbCfg = parsed
		}
	}
	if err != nil {
		log.Printf("[Config] Warning: %s: %v (using defaults)", config.MessageBufferConfigPath, err)
	}

	bufCfg := mbCfg.ToBufferConfig(config.GameWindowWidth)
	if settings != nil {
		bufCfg.LetterReadDuration = settings.LetterReadDuration(bufCfg.LetterReadDuration)
	}
	log.Printf("[Config] Reading rate: %.3fs per character", bufCfg.LetterReadDuration)
	return bufCfg
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.stack.Update(deltaTime)

	if a.stack.Done() {
		log.Printf("[App] State stack finished, exiting")
		return ebiten.Termination
	}
	return nil
}

// toggleFullscreen 切换全屏并保存到设置
func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.stack.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时左右两边填充黑色，游戏画面使用线性滤波缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Stack 返回状态栈
func (a *App) Stack() *game.StateStack {
	return a.stack
}

// Settings 返回设置管理器
// 用于在游戏关闭时保存设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}
