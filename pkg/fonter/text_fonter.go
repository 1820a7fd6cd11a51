// Package fonter provides the text rendering services the message buffer and
// the scenes draw through: an Ebitengine text/v2 renderer for the game window
// and a tcell renderer for the terminal front end.
package fonter

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize 默认字体大小（像素）
const DefaultFontSize = 14.0

// defaultFaces holds the faces built from the bundled font.
var defaultFaces = NewFaceCache()

// NewDefaultFace returns a face from the bundled Go Regular font. Faces are
// cached per size, so repeated calls share one font source.
func NewDefaultFace(size float64) (*text.GoTextFace, error) {
	return defaultFaces.Load("goregular", goregular.TTF, size)
}

// LoadFace creates a face from TrueType/OpenType font data.
//
// Parameters:
//   - data: raw font file contents (e.g. read from assets/fonts/)
//   - size: font size in pixels
//
// Returns:
//   - *text.GoTextFace: face ready for rendering
//   - error: if the data cannot be parsed
func LoadFace(data []byte, size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source: %w", err)
	}
	return newFace(source, size), nil
}

func newFace(source *text.GoTextFaceSource, size float64) *text.GoTextFace {
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
}

// FaceCache parses each named font once and keeps one face per name and size.
type FaceCache struct {
	mu      sync.Mutex
	sources map[string]*text.GoTextFaceSource
	faces   map[string]*text.GoTextFace
}

// NewFaceCache creates an empty cache.
func NewFaceCache() *FaceCache {
	return &FaceCache{
		sources: make(map[string]*text.GoTextFaceSource),
		faces:   make(map[string]*text.GoTextFace),
	}
}

// Load returns the face for name at size, parsing data on the first request for name.
// Later calls with the same name reuse the parsed source and ignore data.
func (c *FaceCache) Load(name string, data []byte, size float64) (*text.GoTextFace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := fmt.Sprintf("%s:%.1f", name, size)
	if face, exists := c.faces[cacheKey]; exists {
		return face, nil
	}

	source, exists := c.sources[name]
	if !exists {
		var err error
		source, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
		}
		c.sources[name] = source
	}

	face := newFace(source, size)
	c.faces[cacheKey] = face
	return face, nil
}

// Len returns the number of cached faces.
func (c *FaceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.faces)
}

// TextFonter draws text onto an Ebitengine image with a text/v2 face.
//
// The destination changes every frame, so callers Bind the screen before
// drawing. Drawing while unbound does nothing.
type TextFonter struct {
	face *text.GoTextFace
	dst  *ebiten.Image

	// Scale multiplies both glyph size and position, 1 when zero.
	Scale float64
}

// NewTextFonter creates a fonter drawing with face.
func NewTextFonter(face *text.GoTextFace) *TextFonter {
	return &TextFonter{face: face, Scale: 1}
}

// Bind sets the image subsequent draws go to. Pass nil to unbind.
func (f *TextFonter) Bind(dst *ebiten.Image) {
	f.dst = dst
}

// Face returns the underlying font face.
func (f *TextFonter) Face() *text.GoTextFace {
	return f.face
}

func (f *TextFonter) scale() float64 {
	if f.Scale <= 0 {
		return 1
	}
	return f.Scale
}

// DrawText implements msgbuf.Fonter.
func (f *TextFonter) DrawText(x, y float64, clr color.Color, format string, args ...any) {
	if f.dst == nil || f.face == nil {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Scale(f.scale(), f.scale())
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(f.dst, fmt.Sprintf(format, args...), f.face, op)
}

// LineHeight implements msgbuf.Fonter.
func (f *TextFonter) LineHeight() float64 {
	if f.face == nil {
		return 0
	}
	m := f.face.Metrics()
	return (m.HAscent + m.HDescent + m.HLineGap) * f.scale()
}

// Measure implements msgbuf.Fonter.
func (f *TextFonter) Measure(s string) float64 {
	if s == "" || f.face == nil {
		return 0
	}
	width, _ := text.Measure(s, f.face, 0)
	return width * f.scale()
}
