// msgpace-tty runs the message buffer in a terminal.
//
// Keys: m adds a log message, c adds a caption, 1 and 2 play test tones,
// Esc or q quits.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/fonter"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/gonewx/msgpace/pkg/msgbuf"
)

var (
	configPath  = flag.String("config", config.MessageBufferConfigPath, "message buffer config file")
	stringsPath = flag.String("strings", game.StringsPath, "strings file")
	logPath     = flag.String("log", "", "write logs to this file")
	mute        = flag.Bool("mute", false, "disable sound")
)

const (
	frameInterval = 16 * time.Millisecond
	toneSeconds   = 2.0
)

var sampleRate = beep.SampleRate(44100)

// ttyGame is the terminal front end around one message buffer.
type ttyGame struct {
	screen tcell.Screen
	fonter *fonter.TermFonter
	buffer *msgbuf.Buffer
	cfg    *config.MessageBufferConfig
	table  *game.StringTable

	logKeys     []string
	captionKeys []string
	nextCaption int
	rng         *rand.Rand

	audioInit bool
}

// terminalConfig adapts the pixel layout of cfg to a width x height cell grid.
func terminalConfig(cfg *config.MessageBufferConfig, width, height int) msgbuf.Config {
	bc := cfg.ToBufferConfig(float64(width))
	bc.MessageX, bc.MessageY = 1, 1
	bc.LineSpacing = 0
	bc.CaptionY = float64(height / 2)
	// Cells can't be outlined.
	bc.EdgeColor = color.RGBA{}
	return bc
}

func newTTYGame(screen tcell.Screen, cfg *config.MessageBufferConfig, table *game.StringTable, seed int64) *ttyGame {
	width, height := screen.Size()
	f := fonter.NewTermFonter(screen)
	g := &ttyGame{
		screen: screen,
		fonter: f,
		buffer: msgbuf.NewBuffer(f, terminalConfig(cfg, width, height)),
		cfg:    cfg,
		table:  table,
		rng:    rand.New(rand.NewSource(seed)),
	}
	if table != nil {
		g.logKeys = table.Keys("LOG_")
		g.captionKeys = table.Keys("CAPTION_")
	}
	return g
}

func (g *ttyGame) lookup(key string) string {
	if g.table == nil {
		return "[" + key + "]"
	}
	return g.table.Get(key)
}

func (g *ttyGame) addMessage() {
	if len(g.logKeys) == 0 {
		g.buffer.AddMsg("Nothing happens.")
		return
	}
	g.buffer.AddMsg(g.lookup(g.logKeys[g.rng.Intn(len(g.logKeys))]))
	g.blip()
}

func (g *ttyGame) addCaption() {
	if len(g.captionKeys) == 0 {
		return
	}
	g.buffer.AddCaption(g.lookup(g.captionKeys[g.nextCaption%len(g.captionKeys)]))
	g.nextCaption++
}

// handleKey processes one key press and reports whether the loop should continue.
func (g *ttyGame) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'm':
			g.addMessage()
		case 'c':
			g.addCaption()
		case '1':
			g.playWave(func(t float64) float64 { return math.Sin(t*5000) / 10 })
		case '2':
			g.playWave(func(t float64) float64 { return math.Sin(t*7000) / 10 })
		}
	}
	return true
}

// resize recenters the caption on the current screen size.
func (g *ttyGame) resize() {
	width, height := g.screen.Size()
	bc := terminalConfig(g.cfg, width, height)
	g.buffer.SetCaptionOrigin(bc.CaptionCenterX, bc.CaptionY)
	g.screen.Sync()
}

// step advances the buffer by dt seconds.
func (g *ttyGame) step(dt float64) {
	if err := g.buffer.Update(dt); err != nil {
		log.Printf("[TTY] Warning: %v", err)
	}
}

func (g *ttyGame) draw() {
	g.screen.Clear()
	g.buffer.Draw()

	_, height := g.screen.Size()
	hint := fmt.Sprintf("m: message  c: caption  1/2: tones  q: quit   t=%.1fs backlog=%.1fs",
		g.buffer.Clock(), g.buffer.Backlog())
	g.fonter.DrawText(1, float64(height-1), color.RGBA{R: 128, G: 128, B: 128, A: 255}, "%s", hint)
	g.screen.Show()
}

func (g *ttyGame) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		g.audioInit = true
	}
	return err
}

func (g *ttyGame) playWave(f game.Wave) {
	if !g.audioInit {
		return
	}
	speaker.Play(game.WaveStreamer(f, sampleRate, toneSeconds))
}

// blip plays a short click when a message arrives.
func (g *ttyGame) blip() {
	if !g.audioInit {
		return
	}
	sine, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(30*time.Millisecond), sine))
}

func (g *ttyGame) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				g.resize()
			}

		case now := <-ticker.C:
			g.step(now.Sub(last).Seconds())
			last = now
			g.draw()
		}
	}
}

func (g *ttyGame) cleanup() {
	if g.audioInit {
		speaker.Close()
	}
	g.screen.Fini()
}

func loadConfig(path string) *config.MessageBufferConfig {
	cfg, err := config.LoadMessageBufferConfig(path)
	if err != nil {
		log.Printf("[TTY] Warning: %v (using defaults)", err)
		return config.DefaultMessageBufferConfig()
	}
	return cfg
}

func loadStrings(path string) *game.StringTable {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[TTY] Warning: %v", err)
		return nil
	}
	defer f.Close()

	table, err := game.ParseStringTable(f)
	if err != nil {
		log.Printf("[TTY] Warning: %s: %v", path, err)
		return nil
	}
	return table
}

func main() {
	flag.Parse()

	// The screen owns stdout, so logs go to a file or nowhere.
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := loadConfig(*configPath)
	table := loadStrings(*stringsPath)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	g := newTTYGame(screen, cfg, table, time.Now().UnixNano())
	defer g.cleanup()

	if !*mute {
		if err := g.initAudio(); err != nil {
			// Non-fatal, runs without sound
			log.Printf("[TTY] Audio initialization failed: %v", err)
		}
	}

	g.buffer.AddCaption(g.lookup("CAPTION_LEVEL_START"))
	g.run()
}
