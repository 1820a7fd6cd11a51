package utils

import (
	"image/color"
	"math"
)

// EaseOutCubic 三次方缓出：开始快，结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Progress 返回 elapsed 占 duration 的比例，限制在 [0, 1]
// duration 不为正时视为已完成
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, elapsed/duration))
}

// FadeColor 按 alpha 缩放预乘颜色的所有分量
func FadeColor(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
