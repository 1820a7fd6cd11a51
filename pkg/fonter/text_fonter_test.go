package fonter

import (
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// TestNewDefaultFace 测试默认字体加载
func TestNewDefaultFace(t *testing.T) {
	face, err := NewDefaultFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewDefaultFace() error: %v", err)
	}
	if face.Size != DefaultFontSize {
		t.Errorf("face size = %v, want %v", face.Size, DefaultFontSize)
	}
}

// TestFaceCache 测试字体按名称和大小缓存
func TestFaceCache(t *testing.T) {
	c := NewFaceCache()

	a, err := c.Load("regular", goregular.TTF, 14)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	b, err := c.Load("regular", goregular.TTF, 14)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if a != b {
		t.Error("same name and size should return the cached face")
	}

	big, err := c.Load("regular", nil, 28)
	if err != nil {
		t.Fatalf("Load() with cached source error: %v", err)
	}
	if big == a || big.Size != 28 {
		t.Errorf("size 28 face = %p size %v, want a new face", big, big.Size)
	}
	if big.Source != a.Source {
		t.Error("faces of one font should share the parsed source")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	if _, err := c.Load("broken", []byte("not a font"), 14); err == nil {
		t.Error("expected error for invalid font data")
	}
	if c.Len() != 2 {
		t.Errorf("failed load should not be cached, Len() = %d", c.Len())
	}
}

// TestNewDefaultFaceIsCached 测试默认字体复用
func TestNewDefaultFaceIsCached(t *testing.T) {
	a, err := NewDefaultFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewDefaultFace() error: %v", err)
	}
	b, err := NewDefaultFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewDefaultFace() error: %v", err)
	}
	if a != b {
		t.Error("NewDefaultFace should return the cached face for the same size")
	}
}

// TestLoadFaceInvalidData 测试无效字体数据
func TestLoadFaceInvalidData(t *testing.T) {
	if _, err := LoadFace([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

// TestTextFonterMetrics 测试行高和宽度测量
func TestTextFonterMetrics(t *testing.T) {
	face, err := NewDefaultFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewDefaultFace() error: %v", err)
	}
	f := NewTextFonter(face)

	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight() = %v, want > 0", f.LineHeight())
	}
	if f.Measure("") != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", f.Measure(""))
	}

	short, long := f.Measure("hi"), f.Measure("hello there")
	if short <= 0 || long <= short {
		t.Errorf("Measure widths not increasing: %v, %v", short, long)
	}

	f.Scale = 4
	if got := f.Measure("hi"); math.Abs(got-4*short) > 1e-6 {
		t.Errorf("scaled Measure = %v, want %v", got, 4*short)
	}

	f.Scale = 0
	if got := f.Measure("hi"); got != short {
		t.Errorf("zero Scale should act as 1, got %v want %v", got, short)
	}
}

// TestTextFonterDraw 测试绑定目标后的绘制
func TestTextFonterDraw(t *testing.T) {
	face, err := NewDefaultFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewDefaultFace() error: %v", err)
	}
	f := NewTextFonter(face)

	// 未绑定时不应 panic
	f.DrawText(0, 0, color.White, "unbound %d", 1)

	screen := ebiten.NewImage(200, 50)
	f.Bind(screen)
	f.DrawText(10, 10, color.White, "%s", "hello")
	f.Bind(nil)
}

// TestTextFonterNilFace 测试空字体降级
func TestTextFonterNilFace(t *testing.T) {
	f := NewTextFonter(nil)
	f.Bind(ebiten.NewImage(10, 10))
	f.DrawText(0, 0, color.White, "x")
	if f.LineHeight() != 0 || f.Measure("x") != 0 {
		t.Error("nil face should measure as zero")
	}
}
