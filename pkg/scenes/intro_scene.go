package scenes

import (
	"image/color"
	"log"
	"math"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/fonter"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/gonewx/msgpace/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	// introToneSeconds 测试音的持续时间（秒）
	introToneSeconds = 2.0
	// introTitleFadeSeconds 标题淡入时间（秒）
	introTitleFadeSeconds = 0.6
)

// introBackgroundColor 开始界面背景色
var introBackgroundColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// WaveAdder 播放合成波形的音频服务，由 game.WavePlayer 实现
type WaveAdder interface {
	AddWave(f game.Wave, seconds float64) bool
}

// introTone1, introTone2 开始界面按 1、2 键播放的测试音
func introTone1(t float64) float64 { return math.Sin(t*5000) / 10 }
func introTone2(t float64) float64 { return math.Sin(t*7000) / 10 }

// IntroScene 开始界面
//
// 显示 "<程序名> v<版本>" 标题和 New Game / Exit 两个按钮。
// 键盘：Esc 退出界面，N 开始新游戏，1 和 2 播放测试音。
type IntroScene struct {
	stack   *game.StateStack
	waves   WaveAdder
	newGame func() game.Scene

	titleFonter *fonter.TextFonter
	labelFonter *fonter.TextFonter

	buttons []*utils.MenuButton
	pointer utils.Pointer

	// elapsed 界面显示的时间，用于标题淡入
	elapsed float64
}

// NewIntroScene 创建开始界面
//
// 参数：
//   - stack: 状态栈，界面通过它切换到游戏或退出
//   - face: 文字字体，可为 nil（不绘制文字）
//   - waves: 音频服务，可为 nil（测试音被忽略）
//   - newGame: 创建游戏场景的工厂函数
func NewIntroScene(stack *game.StateStack, face *text.GoTextFace, waves WaveAdder, newGame func() game.Scene) *IntroScene {
	s := &IntroScene{
		stack:       stack,
		waves:       waves,
		newGame:     newGame,
		titleFonter: fonter.NewTextFonter(face),
		labelFonter: fonter.NewTextFonter(face),
	}
	s.titleFonter.Scale = config.IntroTitleScale

	labels := []string{"New Game", "Exit"}
	actions := []func(){s.startNewGame, s.stack.Quit}
	for i, label := range labels {
		x, y := config.IntroButtonCenter(i)
		s.buttons = append(s.buttons, &utils.MenuButton{
			Label:   label,
			CenterX: x,
			CenterY: y,
			Width:   config.IntroButtonWidth,
			Height:  config.IntroButtonHeight,
			OnClick: actions[i],
		})
	}
	return s
}

// Title 返回标题文字
func (s *IntroScene) Title() string {
	return config.AppName + " v" + config.Version
}

// Buttons 返回界面按钮，顺序为 New Game, Exit
func (s *IntroScene) Buttons() []*utils.MenuButton {
	return s.buttons
}

// startNewGame 用新的游戏场景替换开始界面
func (s *IntroScene) startNewGame() {
	if s.newGame == nil {
		log.Printf("[IntroScene] Warning: no game scene factory")
		return
	}
	log.Printf("[IntroScene] Starting new game")
	s.stack.Replace(s.newGame())
}

// playTone 播放测试音，没有音频服务时忽略
func (s *IntroScene) playTone(f game.Wave) {
	if s.waves == nil {
		return
	}
	if !s.waves.AddWave(f, introToneSeconds) {
		log.Printf("[IntroScene] Tone not played (sound disabled or unavailable)")
	}
}

// HandleKey 处理一次按键，返回按键是否被使用
func (s *IntroScene) HandleKey(key ebiten.Key) bool {
	switch key {
	case ebiten.KeyEscape:
		s.stack.Pop()
	case ebiten.KeyN:
		s.startNewGame()
	case ebiten.KeyDigit1:
		s.playTone(introTone1)
	case ebiten.KeyDigit2:
		s.playTone(introTone2)
	default:
		return false
	}
	return true
}

// HandleClick 处理一次点击，返回是否点中按钮
func (s *IntroScene) HandleClick(x, y float64) bool {
	for _, b := range s.buttons {
		if b.Click(x, y) {
			return true
		}
	}
	return false
}

// updateHover 更新按钮悬停状态
func (s *IntroScene) updateHover(x, y float64) {
	for _, b := range s.buttons {
		b.Hovered = b.Contains(x, y)
	}
}

// TitleAlpha 返回标题当前的不透明度
func (s *IntroScene) TitleAlpha() float64 {
	return utils.EaseOutCubic(utils.Progress(s.elapsed, introTitleFadeSeconds))
}

// Update 读取本帧输入并分发
func (s *IntroScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	s.pointer.Update()
	px, py := s.pointer.Position()
	s.updateHover(float64(px), float64(py))

	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		// 场景可能已被替换或弹出
		if s.stack.Top() != s {
			return
		}
		s.HandleKey(key)
	}

	if released, x, y := s.pointer.JustReleased(); released && s.stack.Top() == s {
		s.HandleClick(float64(x), float64(y))
	}
}

// Draw 绘制标题和按钮
func (s *IntroScene) Draw(screen *ebiten.Image) {
	screen.Fill(introBackgroundColor)

	s.titleFonter.Bind(screen)
	titleColor := utils.FadeColor(config.IntroTitleColor, s.TitleAlpha())
	s.titleFonter.DrawText(0, 0, titleColor, "%s v%s", config.AppName, config.Version)
	s.titleFonter.Bind(nil)

	s.labelFonter.Bind(screen)
	for _, b := range s.buttons {
		b.Draw(screen, s.labelFonter)
	}
	s.labelFonter.Bind(nil)
}
