package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/game"
)

func newTestTTY(t *testing.T) (*ttyGame, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	table, err := game.ParseStringTable(strings.NewReader("[LOG_A]\nalpha\n\n[CAPTION_X]\nhello there\n"))
	if err != nil {
		t.Fatalf("ParseStringTable: %v", err)
	}
	return newTTYGame(screen, config.DefaultMessageBufferConfig(), table, 1), screen
}

func rowText(s tcell.SimulationScreen, row int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, row)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestTerminalConfig(t *testing.T) {
	bc := terminalConfig(config.DefaultMessageBufferConfig(), 80, 24)

	if bc.CaptionCenterX != 40 || bc.CaptionY != 12 {
		t.Errorf("caption at (%v, %v), want (40, 12)", bc.CaptionCenterX, bc.CaptionY)
	}
	if bc.MessageX != 1 || bc.MessageY != 1 || bc.LineSpacing != 0 {
		t.Errorf("messages at (%v, %v) spacing %v", bc.MessageX, bc.MessageY, bc.LineSpacing)
	}
	if bc.EdgeColor.A != 0 {
		t.Error("terminal config should disable the outline")
	}
}

func TestHandleKey(t *testing.T) {
	g, _ := newTestTTY(t)

	tests := []struct {
		name        string
		ev          *tcell.EventKey
		keepRunning bool
	}{
		{"message", tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), true},
		{"caption", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), true},
		{"tone without audio", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), true},
		{"unknown", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), true},
		{"quit", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.handleKey(tt.ev); got != tt.keepRunning {
				t.Errorf("handleKey() = %v, want %v", got, tt.keepRunning)
			}
		})
	}

	if msgs := g.buffer.Messages(); len(msgs) != 1 || msgs[0].Text != "alpha" {
		t.Errorf("messages = %v, want [alpha]", msgs)
	}
	if c, ok := g.buffer.CurrentCaption(); !ok || c.Text != "hello there" {
		t.Errorf("caption = %v, %v", c, ok)
	}
}

func TestDrawAndExpire(t *testing.T) {
	g, screen := newTestTTY(t)
	g.addMessage()
	g.addCaption()

	g.draw()
	if row := rowText(screen, 1); !strings.HasPrefix(row, " alpha") {
		t.Errorf("message row = %q", row)
	}
	if row := rowText(screen, 12); !strings.Contains(row, "hello there") {
		t.Errorf("caption row = %q", row)
	}

	g.step(5)
	g.draw()
	if row := rowText(screen, 1); strings.Contains(row, "alpha") {
		t.Errorf("message should have expired, row = %q", row)
	}
}

func TestResizeRecentersCaption(t *testing.T) {
	g, screen := newTestTTY(t)
	g.addCaption()

	screen.SetSize(100, 30)
	g.resize()
	g.draw()

	row := rowText(screen, 15)
	if got := strings.Index(row, "hello there"); got != 45 {
		t.Errorf("caption starts at column %d, want 45 (row %q)", got, row)
	}
	if row := rowText(screen, 12); strings.Contains(row, "hello there") {
		t.Errorf("caption still on the old row: %q", row)
	}
}

func TestStepRejectsNegative(t *testing.T) {
	g, _ := newTestTTY(t)
	g.step(1)
	g.step(-1)

	if g.buffer.Clock() != 1 {
		t.Errorf("clock = %v, want 1", g.buffer.Clock())
	}
}
