package config

import "image/color"

// 布局配置常量
// 窗口尺寸、开始界面的标题和菜单按钮位置

const (
	// AppName 显示在开始界面标题中
	AppName = "msgpace"

	// Version 显示在开始界面标题中
	Version = "0.3.0"
)

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Intro Screen Configuration (开始界面配置)
const (
	// IntroTitleScale 标题文字的整体缩放
	IntroTitleScale = 4.0

	// IntroButtonWidth, IntroButtonHeight 菜单按钮尺寸
	IntroButtonWidth  = 96.0
	IntroButtonHeight = 16.0

	// IntroNewGameButtonY "New Game" 按钮中心的 Y 坐标
	IntroNewGameButtonY = 240.0

	// IntroExitButtonY "Exit" 按钮中心的 Y 坐标
	IntroExitButtonY = 280.0
)

// IntroTitleColor 标题文字颜色
var IntroTitleColor = color.RGBA{R: 196, G: 255, B: 196, A: 255}

// IntroButtonCenter 返回开始界面第 index 个按钮的中心坐标
// 索引顺序：0=New Game, 1=Exit；越界返回 (0, 0)
func IntroButtonCenter(index int) (x, y float64) {
	switch index {
	case 0:
		return GameWindowWidth / 2, IntroNewGameButtonY
	case 1:
		return GameWindowWidth / 2, IntroExitButtonY
	}
	return 0, 0
}
