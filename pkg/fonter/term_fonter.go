package fonter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// TermFonter draws text into terminal cells through tcell.
// Coordinates are cell columns and rows; every line is one row tall.
type TermFonter struct {
	screen tcell.Screen

	// Background is used for the cells text is written into.
	Background tcell.Color
}

// NewTermFonter creates a fonter drawing onto screen.
func NewTermFonter(screen tcell.Screen) *TermFonter {
	return &TermFonter{screen: screen, Background: tcell.ColorDefault}
}

// DrawText implements msgbuf.Fonter. Mostly transparent colors draw nothing,
// since a cell can't be blended.
func (f *TermFonter) DrawText(x, y float64, clr color.Color, format string, args ...any) {
	fg, ok := TermColor(clr)
	if !ok {
		return
	}
	style := tcell.StyleDefault.Foreground(fg).Background(f.Background)

	col := int(math.Round(x))
	row := int(math.Round(y))
	width, _ := f.screen.Size()

	state := -1
	rest := fmt.Sprintf(format, args...)
	var cluster string
	var boundaries int
	for rest != "" && col < width {
		cluster, rest, boundaries, state = uniseg.StepString(rest, state)
		w := boundaries >> uniseg.ShiftWidth
		if w == 0 {
			// Control characters and stray combining marks take no cell.
			continue
		}
		runes := []rune(cluster)
		if col >= 0 {
			f.screen.SetContent(col, row, runes[0], runes[1:], style)
		}
		col += w
	}
}

// LineHeight implements msgbuf.Fonter.
func (f *TermFonter) LineHeight() float64 {
	return 1
}

// Measure implements msgbuf.Fonter and returns the width in cells.
func (f *TermFonter) Measure(s string) float64 {
	return float64(uniseg.StringWidth(s))
}

// TermColor converts a color to a tcell RGB color. It reports false for
// colors that are more than half transparent.
func TermColor(clr color.Color) (tcell.Color, bool) {
	r, g, b, a := clr.RGBA()
	if a < 0x8000 {
		return tcell.ColorDefault, false
	}
	// un-premultiply
	r = r * 0xffff / a
	g = g * 0xffff / a
	b = b * 0xffff / a
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)), true
}
