package utils

import (
	"image/color"

	"github.com/gonewx/msgpace/pkg/msgbuf"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 菜单按钮颜色
var (
	menuButtonFillColor   = color.RGBA{R: 32, G: 48, B: 32, A: 255}
	menuButtonHoverColor  = color.RGBA{R: 64, G: 96, B: 64, A: 255}
	menuButtonBorderColor = color.RGBA{R: 196, G: 255, B: 196, A: 255}
	menuButtonLabelColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// MenuButton 开始界面上的文字按钮
// 以中心点定位，背景为纯色矩形加描边，文字居中
type MenuButton struct {
	Label string

	// CenterX, CenterY 按钮中心（逻辑屏幕坐标）
	CenterX, CenterY float64
	Width, Height    float64

	// Hovered 指针悬停时绘制高亮背景
	Hovered bool

	// OnClick 点击回调，可为 nil
	OnClick func()
}

// Bounds 返回按钮左上角坐标和尺寸
func (b *MenuButton) Bounds() (x, y, w, h float64) {
	return b.CenterX - b.Width/2, b.CenterY - b.Height/2, b.Width, b.Height
}

// Contains 检查点 (px, py) 是否在按钮内（含边界）
func (b *MenuButton) Contains(px, py float64) bool {
	x, y, w, h := b.Bounds()
	return px >= x && px <= x+w && py >= y && py <= y+h
}

// Click 若 (px, py) 落在按钮内则触发 OnClick
// 返回是否命中
func (b *MenuButton) Click(px, py float64) bool {
	if !b.Contains(px, py) {
		return false
	}
	if b.OnClick != nil {
		b.OnClick()
	}
	return true
}

// Draw 绘制按钮背景、描边和居中文字
// f 为 nil 时只绘制背景
func (b *MenuButton) Draw(screen *ebiten.Image, f msgbuf.Fonter) {
	x, y, w, h := b.Bounds()

	fill := menuButtonFillColor
	if b.Hovered {
		fill = menuButtonHoverColor
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), fill, true)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, menuButtonBorderColor, true)

	if f == nil || b.Label == "" {
		return
	}
	labelX := b.CenterX - f.Measure(b.Label)/2
	labelY := b.CenterY - f.LineHeight()/2
	f.DrawText(labelX, labelY, menuButtonLabelColor, "%s", b.Label)
}
