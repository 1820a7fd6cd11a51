// Package msgbuf paces on-screen text so the player has time to read it.
//
// Incoming text is split into two channels: messages (a stacked log that expires
// oldest first) and captions (one overlay line at a time, FIFO). Each entry gets a
// read time derived from its length and the configured reading rate. All timing is
// driven by the simulated clock passed to Update, never by wall time.
package msgbuf

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/rivo/uniseg"
)

// ErrNegativeInterval is returned by Update when asked to move the clock backwards
// or by a non-finite amount.
var ErrNegativeInterval = errors.New("msgbuf: negative or non-finite update interval")

// Fonter is the text rendering service the buffer draws through.
// The buffer only borrows it; the owner must keep it alive while the buffer is in use.
type Fonter interface {
	// DrawText renders a formatted string with its top-left corner at (x, y).
	DrawText(x, y float64, clr color.Color, format string, args ...any)
	// LineHeight returns the vertical advance of one line.
	LineHeight() float64
	// Measure returns the rendered width of text.
	Measure(text string) float64
}

// TimedText is a piece of text and the clock time at which it counts as read.
type TimedText struct {
	Text     string
	TimeRead float64
}

// Config holds the tunables of a Buffer.
type Config struct {
	// LetterReadDuration is the reading rate in seconds per character.
	LetterReadDuration float64
	// MinReadDuration is the floor for any single entry, so very short strings don't flicker.
	MinReadDuration float64
	// FadeDuration is how long before its read time an entry starts fading out. 0 disables fading.
	FadeDuration float64

	// MessageX, MessageY locate the first (oldest) message line.
	MessageX float64
	MessageY float64
	// LineSpacing is the extra gap added to the fonter's line height between messages.
	LineSpacing float64

	// CaptionCenterX, CaptionY locate the current caption; it is centered on CaptionCenterX.
	CaptionCenterX float64
	CaptionY       float64

	TextColor color.RGBA
	EdgeColor color.RGBA

	// BacklogWarning logs once when unread message time exceeds this many seconds. 0 disables it.
	BacklogWarning float64
}

// DefaultConfig returns the settings used when no configuration file is available.
func DefaultConfig() Config {
	return Config{
		LetterReadDuration: 0.05,
		MinReadDuration:    0.5,
		FadeDuration:       0.5,
		MessageX:           8,
		MessageY:           8,
		LineSpacing:        2,
		CaptionCenterX:     400,
		CaptionY:           260,
		TextColor:          color.RGBA{R: 255, G: 255, B: 255, A: 255},
		EdgeColor:          color.RGBA{R: 0, G: 0, B: 0, A: 255},
		BacklogWarning:     60,
	}
}

// Buffer schedules messages and captions against a simulated clock.
// It is not safe for concurrent use; the game loop owns it.
type Buffer struct {
	// TextColor and EdgeColor may be changed at any time; Draw picks them up.
	TextColor color.RGBA
	EdgeColor color.RGBA

	fonter Fonter
	cfg    Config

	// clock is the current simulated time in seconds.
	clock float64
	// readNewTextTime is when the player will have read every pending message. Never below clock.
	readNewTextTime float64
	// readCaptionTime is the equivalent cursor for the caption queue.
	readCaptionTime float64

	messages []TimedText
	captions []TimedText

	backlogWarned bool
}

// NewBuffer creates an empty buffer drawing through fonter.
// A non-positive LetterReadDuration falls back to the default rate.
func NewBuffer(fonter Fonter, cfg Config) *Buffer {
	if cfg.LetterReadDuration <= 0 {
		cfg.LetterReadDuration = DefaultConfig().LetterReadDuration
	}
	if cfg.MinReadDuration < 0 {
		cfg.MinReadDuration = 0
	}
	if cfg.FadeDuration < 0 {
		cfg.FadeDuration = 0
	}
	return &Buffer{
		TextColor: cfg.TextColor,
		EdgeColor: cfg.EdgeColor,
		fonter:    fonter,
		cfg:       cfg,
	}
}

// ReadDuration returns how long the player needs to read text.
// Characters are user-perceived characters (grapheme clusters), not bytes.
func (b *Buffer) ReadDuration(text string) float64 {
	d := float64(uniseg.GraphemeClusterCount(text)) * b.cfg.LetterReadDuration
	return math.Max(d, b.cfg.MinReadDuration)
}

// AddMsg queues text as a message. Its reading starts once every earlier
// message has been read, so bursts line up one after another.
func (b *Buffer) AddMsg(text string) {
	start := math.Max(b.readNewTextTime, b.clock)
	b.readNewTextTime = start + b.ReadDuration(text)
	b.messages = append(b.messages, TimedText{Text: text, TimeRead: b.readNewTextTime})

	if b.cfg.BacklogWarning > 0 && !b.backlogWarned && b.Backlog() > b.cfg.BacklogWarning {
		b.backlogWarned = true
		log.Printf("[MessageBuffer] Warning: %d messages pending, %.1fs of unread text", len(b.messages), b.Backlog())
	}
}

// AddCaption queues text as a caption. Captions are paced on their own
// cursor and never delay messages.
func (b *Buffer) AddCaption(text string) {
	start := math.Max(b.readCaptionTime, b.clock)
	b.readCaptionTime = start + b.ReadDuration(text)
	b.captions = append(b.captions, TimedText{Text: text, TimeRead: b.readCaptionTime})
}

// Update advances the clock by interval seconds and drops every message and
// caption that has been read by then.
//
// A negative, NaN or infinite interval returns ErrNegativeInterval and changes nothing.
func (b *Buffer) Update(interval float64) error {
	if interval < 0 || math.IsNaN(interval) || math.IsInf(interval, 1) {
		return fmt.Errorf("%w: %v", ErrNegativeInterval, interval)
	}

	b.clock += interval
	if b.readNewTextTime < b.clock {
		b.readNewTextTime = b.clock
	}

	b.messages = dropRead(b.messages, b.clock)
	b.captions = dropRead(b.captions, b.clock)

	if b.backlogWarned && b.Backlog() <= b.cfg.BacklogWarning {
		b.backlogWarned = false
	}
	return nil
}

// dropRead removes the leading entries whose read time has passed.
// Read times are non-decreasing, so the first unread entry ends the scan.
func dropRead(texts []TimedText, clock float64) []TimedText {
	n := 0
	for n < len(texts) && texts[n].TimeRead <= clock {
		n++
	}
	if n == 0 {
		return texts
	}
	return slices.Delete(texts, 0, n)
}

// Draw renders the live messages and the current caption. It never changes
// buffer state; only Update expires entries.
func (b *Buffer) Draw() {
	if b.fonter == nil {
		return
	}

	step := b.fonter.LineHeight() + b.cfg.LineSpacing
	for i, msg := range b.messages {
		alpha := b.fade(msg)
		b.drawOutlined(b.cfg.MessageX, b.cfg.MessageY+float64(i)*step, msg.Text, alpha)
	}

	if caption, ok := b.CurrentCaption(); ok {
		x := b.cfg.CaptionCenterX - b.fonter.Measure(caption.Text)/2
		b.drawOutlined(x, b.cfg.CaptionY, caption.Text, b.fade(caption))
	}
}

// outlineOffsets surround the glyphs with a one pixel edge.
var outlineOffsets = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// drawOutlined draws txt in TextColor over an EdgeColor outline.
// A fully transparent EdgeColor skips the outline passes.
func (b *Buffer) drawOutlined(x, y float64, txt string, alpha float64) {
	if b.EdgeColor.A != 0 {
		edge := scaleAlpha(b.EdgeColor, alpha)
		for _, off := range outlineOffsets {
			b.fonter.DrawText(x+off[0], y+off[1], edge, "%s", txt)
		}
	}
	b.fonter.DrawText(x, y, scaleAlpha(b.TextColor, alpha), "%s", txt)
}

// fade returns the opacity of t at the current clock, 1 until the fade window starts.
func (b *Buffer) fade(t TimedText) float64 {
	if b.cfg.FadeDuration <= 0 {
		return 1
	}
	remaining := t.TimeRead - b.clock
	if remaining >= b.cfg.FadeDuration {
		return 1
	}
	if remaining <= 0 {
		return 0
	}
	return remaining / b.cfg.FadeDuration
}

// scaleAlpha scales a premultiplied color by alpha.
func scaleAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// Clock returns the current simulated time.
func (b *Buffer) Clock() float64 {
	return b.clock
}

// ReadNewTextTime returns when every pending message will have been read.
func (b *Buffer) ReadNewTextTime() float64 {
	return b.readNewTextTime
}

// Backlog returns the seconds of message text still waiting to be read.
func (b *Buffer) Backlog() float64 {
	return b.readNewTextTime - b.clock
}

// LetterReadDuration returns the current reading rate.
func (b *Buffer) LetterReadDuration() float64 {
	return b.cfg.LetterReadDuration
}

// SetLetterReadDuration changes the reading rate. Entries already queued keep
// their read times; only text added afterwards is paced at the new rate.
// A non-positive rate falls back to the default rate.
func (b *Buffer) SetLetterReadDuration(rate float64) {
	if rate <= 0 || math.IsNaN(rate) {
		rate = DefaultConfig().LetterReadDuration
	}
	b.cfg.LetterReadDuration = rate
}

// SetCaptionOrigin moves the point the current caption is centered on.
func (b *Buffer) SetCaptionOrigin(centerX, y float64) {
	b.cfg.CaptionCenterX = centerX
	b.cfg.CaptionY = y
}

// Messages returns a copy of the live messages, oldest first.
func (b *Buffer) Messages() []TimedText {
	return slices.Clone(b.messages)
}

// Captions returns a copy of the caption queue, current caption first.
func (b *Buffer) Captions() []TimedText {
	return slices.Clone(b.captions)
}

// CurrentCaption returns the caption being shown, if any.
func (b *Buffer) CurrentCaption() (TimedText, bool) {
	if len(b.captions) == 0 {
		return TimedText{}, false
	}
	return b.captions[0], true
}
