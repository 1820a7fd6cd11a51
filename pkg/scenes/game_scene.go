package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/fonter"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/gonewx/msgpace/pkg/msgbuf"
	"github.com/gonewx/msgpace/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// 字符串表中的键
const (
	// CaptionLevelStart 进入游戏时显示的字幕
	CaptionLevelStart = "CAPTION_LEVEL_START"
	captionPrefix     = "CAPTION_"
	logPrefix         = "LOG_"
)

// 自动日志消息的间隔范围（秒）
const (
	minLogInterval = 1.5
	maxLogInterval = 4.5
)

// 按键调整设置的步长
const (
	readRateStep = 0.01
	volumeStep   = 0.1
)

var (
	gameBackgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	gameHintColor       = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// GameScene 游戏界面
//
// 持有一个 msgbuf.Buffer：进入时显示关卡字幕，之后按随机间隔产生日志消息。
// Space（或点击）追加一条消息，C 依次追加字幕，Esc 返回开始界面。
// -/= 调整阅读速度，M 切换音效，[/] 调整音量，修改立即保存。
type GameScene struct {
	stack    *game.StateStack
	back     func() game.Scene
	settings *game.SettingsManager

	buffer *msgbuf.Buffer
	fonter *fonter.TextFonter
	text   *game.StringTable

	rng          *rand.Rand
	logKeys      []string
	captionKeys  []string
	nextCaption  int
	untilNextLog float64

	pointer utils.Pointer
	hint    string
}

// NewGameScene 创建游戏界面
//
// 参数：
//   - stack: 状态栈
//   - face: 文字字体，可为 nil（不绘制文字）
//   - table: 字符串表，可为 nil（直接显示键名）
//   - settings: 设置管理器，可为 nil（阅读速度只作用于本界面，不保存）
//   - bufCfg: 消息缓冲配置
//   - back: 按 Esc 时替换本界面的场景工厂，为 nil 时直接弹出本界面
//   - seed: 随机日志的种子
func NewGameScene(stack *game.StateStack, face *text.GoTextFace, table *game.StringTable, settings *game.SettingsManager, bufCfg msgbuf.Config, back func() game.Scene, seed int64) *GameScene {
	if settings != nil {
		// 已保存的阅读速度优先于配置文件
		bufCfg.LetterReadDuration = settings.LetterReadDuration(bufCfg.LetterReadDuration)
	}

	f := fonter.NewTextFonter(face)
	s := &GameScene{
		stack:    stack,
		back:     back,
		settings: settings,
		buffer:   msgbuf.NewBuffer(f, bufCfg),
		fonter:   f,
		text:     table,
		rng:      rand.New(rand.NewSource(seed)),
		hint:     "Space: message   C: caption   -/=: speed   M: sound   Esc: back   " + utils.PointerVerb() + ": message",
	}

	if table != nil {
		s.logKeys = table.Keys(logPrefix)
		for _, key := range table.Keys(captionPrefix) {
			// 开场字幕不参与循环
			if key != CaptionLevelStart {
				s.captionKeys = append(s.captionKeys, key)
			}
		}
	}

	s.buffer.AddCaption(s.lookup(CaptionLevelStart))
	s.untilNextLog = s.nextLogInterval()
	log.Printf("[GameScene] Started with %d log lines, %d captions", len(s.logKeys), len(s.captionKeys))
	return s
}

// Buffer 返回界面持有的消息缓冲
func (s *GameScene) Buffer() *msgbuf.Buffer {
	return s.buffer
}

// lookup 从字符串表取文本，没有字符串表时返回键名
func (s *GameScene) lookup(key string) string {
	if s.text == nil {
		return "[" + key + "]"
	}
	return s.text.Get(key)
}

func (s *GameScene) nextLogInterval() float64 {
	return minLogInterval + s.rng.Float64()*(maxLogInterval-minLogInterval)
}

// AddRandomMessage 从日志行中随机挑选一条加入消息缓冲
func (s *GameScene) AddRandomMessage() {
	if len(s.logKeys) == 0 {
		return
	}
	key := s.logKeys[s.rng.Intn(len(s.logKeys))]
	s.buffer.AddMsg(s.lookup(key))
}

// AddNextCaption 依次加入下一条字幕
func (s *GameScene) AddNextCaption() {
	if len(s.captionKeys) == 0 {
		return
	}
	key := s.captionKeys[s.nextCaption%len(s.captionKeys)]
	s.nextCaption++
	s.buffer.AddCaption(s.lookup(key))
}

// leave 返回开始界面
func (s *GameScene) leave() {
	if s.back == nil {
		s.stack.Pop()
		return
	}
	s.stack.Replace(s.back())
}

// StepReadRate 按 delta 调整阅读速度（秒/字符）并保存
//
// 新速度只影响之后加入的消息和字幕。
func (s *GameScene) StepReadRate(delta float64) {
	rate := s.buffer.LetterReadDuration() + delta
	rate = math.Max(game.MinLetterReadDuration, math.Min(game.MaxLetterReadDuration, rate))
	// 避免多次步进累积浮点误差
	rate = math.Round(rate*1000) / 1000

	if s.settings != nil {
		s.settings.SetLetterReadDuration(rate)
		rate = s.settings.LetterReadDuration(rate)
		s.saveSettings()
	}
	s.buffer.SetLetterReadDuration(rate)
	log.Printf("[GameScene] Reading rate set to %.3fs per character", rate)
}

// ToggleSound 切换音效开关并保存，没有设置管理器时返回 false
func (s *GameScene) ToggleSound() bool {
	if s.settings == nil {
		return false
	}
	enabled := !s.settings.GetSettings().SoundEnabled
	s.settings.SetSoundEnabled(enabled)
	s.saveSettings()
	log.Printf("[GameScene] Sound enabled: %v", enabled)
	return true
}

// StepVolume 按 delta 调整音量并保存，没有设置管理器时返回 false
func (s *GameScene) StepVolume(delta float64) bool {
	if s.settings == nil {
		return false
	}
	volume := math.Round((s.settings.GetSettings().SoundVolume+delta)*10) / 10
	s.settings.SetSoundVolume(volume)
	s.saveSettings()
	log.Printf("[GameScene] Sound volume set to %.1f", s.settings.GetSettings().SoundVolume)
	return true
}

func (s *GameScene) saveSettings() {
	if err := s.settings.Save(); err != nil {
		log.Printf("[GameScene] Warning: failed to save settings: %v", err)
	}
}

// Status 返回右上角显示的阅读速度和音效状态
func (s *GameScene) Status() string {
	status := fmt.Sprintf("%.2fs/char", s.buffer.LetterReadDuration())
	if s.settings == nil {
		return status
	}
	settings := s.settings.GetSettings()
	if !settings.SoundEnabled {
		return status + "   sound off"
	}
	return fmt.Sprintf("%s   sound %d%%", status, int(math.Round(settings.SoundVolume*100)))
}

// HandleKey 处理一次按键，返回按键是否被使用
func (s *GameScene) HandleKey(key ebiten.Key) bool {
	switch key {
	case ebiten.KeySpace:
		s.AddRandomMessage()
	case ebiten.KeyC:
		s.AddNextCaption()
	case ebiten.KeyMinus:
		s.StepReadRate(-readRateStep)
	case ebiten.KeyEqual:
		s.StepReadRate(readRateStep)
	case ebiten.KeyM:
		return s.ToggleSound()
	case ebiten.KeyBracketLeft:
		return s.StepVolume(-volumeStep)
	case ebiten.KeyBracketRight:
		return s.StepVolume(volumeStep)
	case ebiten.KeyEscape:
		s.leave()
	default:
		return false
	}
	return true
}

// Step 推进游戏时间：产生到期的日志消息，然后更新消息缓冲
func (s *GameScene) Step(deltaTime float64) {
	s.untilNextLog -= deltaTime
	for s.untilNextLog <= 0 {
		s.AddRandomMessage()
		s.untilNextLog += s.nextLogInterval()
	}

	if err := s.buffer.Update(deltaTime); err != nil {
		log.Printf("[GameScene] Warning: message buffer update rejected: %v", err)
	}
}

// Update 读取输入并推进时间
func (s *GameScene) Update(deltaTime float64) {
	s.pointer.Update()
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		if s.stack.Top() != s {
			return
		}
		s.HandleKey(key)
	}
	if s.stack.Top() != s {
		return
	}
	if released, _, _ := s.pointer.JustReleased(); released {
		s.AddRandomMessage()
	}

	s.Step(deltaTime)
}

// Draw 绘制消息、字幕和底部的操作提示
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(gameBackgroundColor)

	s.fonter.Bind(screen)
	defer s.fonter.Bind(nil)

	s.buffer.Draw()

	y := config.GameWindowHeight - s.fonter.LineHeight() - 8
	x := (config.GameWindowWidth - s.fonter.Measure(s.hint)) / 2
	s.fonter.DrawText(x, y, gameHintColor, "%s", s.hint)

	status := s.Status()
	s.fonter.DrawText(config.GameWindowWidth-s.fonter.Measure(status)-8, 8, gameHintColor, "%s", status)
}
