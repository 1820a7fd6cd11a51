// Package utils 提供场景共用的小工具：指针输入、菜单按钮和平台检测
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Pointer 统一鼠标和触摸输入
// 触摸释放时 ebiten 已经拿不到位置，所以每帧记录最后一次触摸位置
type Pointer struct {
	lastTouchX, lastTouchY int
	touching               bool
}

// Update 每帧调用一次，记录活动触摸的位置
func (p *Pointer) Update() {
	touchIDs := ebiten.AppendTouchIDs(nil)
	p.touching = len(touchIDs) > 0
	if p.touching {
		p.lastTouchX, p.lastTouchY = ebiten.TouchPosition(touchIDs[0])
	}
}

// Position 返回当前指针位置，优先返回触摸位置
func (p *Pointer) Position() (int, int) {
	if p.touching {
		return p.lastTouchX, p.lastTouchY
	}
	return ebiten.CursorPosition()
}

// JustReleased 检查是否刚刚释放指针（触摸或鼠标左键）
// 返回是否释放以及释放位置
func (p *Pointer) JustReleased() (bool, int, int) {
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return true, p.lastTouchX, p.lastTouchY
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
