package scenes

import (
	"math"
	"testing"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// mockWaves 记录 AddWave 调用的音频服务
type mockWaves struct {
	waves   []game.Wave
	seconds []float64
	accept  bool
}

func (m *mockWaves) AddWave(f game.Wave, seconds float64) bool {
	m.waves = append(m.waves, f)
	m.seconds = append(m.seconds, seconds)
	return m.accept
}

// stubScene 最小场景实现
type stubScene struct{ name string }

func (s *stubScene) Update(deltaTime float64)  {}
func (s *stubScene) Draw(screen *ebiten.Image) {}

func newTestIntro(t *testing.T) (*IntroScene, *game.StateStack, *mockWaves, *stubScene) {
	t.Helper()
	stack := game.NewStateStack()
	waves := &mockWaves{accept: true}
	gameScene := &stubScene{name: "game"}
	intro := NewIntroScene(stack, nil, waves, func() game.Scene { return gameScene })
	stack.Push(intro)
	return intro, stack, waves, gameScene
}

func TestIntroSceneEscapePops(t *testing.T) {
	intro, stack, _, _ := newTestIntro(t)

	if !intro.HandleKey(ebiten.KeyEscape) {
		t.Fatal("Escape should be handled")
	}
	if stack.Len() != 0 {
		t.Errorf("stack length = %d, want 0", stack.Len())
	}
	if !stack.Done() {
		t.Error("empty stack should end the game loop")
	}
}

func TestIntroSceneNewGameKey(t *testing.T) {
	intro, stack, _, gameScene := newTestIntro(t)

	intro.HandleKey(ebiten.KeyN)

	if stack.Len() != 1 {
		t.Fatalf("stack length = %d, want 1", stack.Len())
	}
	if stack.Top() != gameScene {
		t.Errorf("top scene = %v, want game scene", stack.Top())
	}
}

func TestIntroSceneTones(t *testing.T) {
	intro, stack, waves, _ := newTestIntro(t)

	intro.HandleKey(ebiten.KeyDigit1)
	intro.HandleKey(ebiten.KeyDigit2)

	if len(waves.waves) != 2 {
		t.Fatalf("AddWave called %d times, want 2", len(waves.waves))
	}
	for i, s := range waves.seconds {
		if s != 2 {
			t.Errorf("tone %d duration = %v, want 2", i, s)
		}
	}

	// 振幅为 1/10
	const quarter = math.Pi / 2
	if got := waves.waves[0](quarter / 5000); got < 0.0999 || got > 0.1001 {
		t.Errorf("tone 1 peak = %v, want 0.1", got)
	}
	if got := waves.waves[1](quarter / 7000); got < 0.0999 || got > 0.1001 {
		t.Errorf("tone 2 peak = %v, want 0.1", got)
	}

	if stack.Top() != intro {
		t.Error("tones should not change the active scene")
	}
}

func TestIntroSceneTonesWithoutAudio(t *testing.T) {
	stack := game.NewStateStack()
	intro := NewIntroScene(stack, nil, nil, nil)
	stack.Push(intro)

	if !intro.HandleKey(ebiten.KeyDigit1) {
		t.Error("tone key should be handled without audio")
	}
}

func TestIntroSceneUnknownKey(t *testing.T) {
	intro, stack, waves, _ := newTestIntro(t)

	if intro.HandleKey(ebiten.KeyQ) {
		t.Error("Q should not be handled")
	}
	if stack.Top() != intro || len(waves.waves) != 0 {
		t.Error("unknown key should not change anything")
	}
}

func TestIntroSceneButtons(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		wantLen  int
		wantDone bool
		wantGame bool
	}{
		{name: "new game", index: 0, wantLen: 1, wantGame: true},
		{name: "exit", index: 1, wantLen: 1, wantDone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intro, stack, _, gameScene := newTestIntro(t)
			x, y := config.IntroButtonCenter(tt.index)

			if !intro.HandleClick(x, y) {
				t.Fatal("click on button center should hit")
			}
			if stack.Len() != tt.wantLen {
				t.Errorf("stack length = %d, want %d", stack.Len(), tt.wantLen)
			}
			if stack.Done() != tt.wantDone {
				t.Errorf("Done() = %v, want %v", stack.Done(), tt.wantDone)
			}
			if (stack.Top() == gameScene) != tt.wantGame {
				t.Errorf("game scene active = %v, want %v", stack.Top() == gameScene, tt.wantGame)
			}
		})
	}
}

func TestIntroSceneClickMisses(t *testing.T) {
	intro, stack, _, _ := newTestIntro(t)

	if intro.HandleClick(5, 5) {
		t.Error("click in the corner should miss")
	}
	if stack.Top() != intro || stack.Done() {
		t.Error("missed click should not change the stack")
	}
}

func TestIntroSceneLayout(t *testing.T) {
	intro, _, _, _ := newTestIntro(t)

	if got, want := intro.Title(), config.AppName+" v"+config.Version; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}

	buttons := intro.Buttons()
	if len(buttons) != 2 {
		t.Fatalf("got %d buttons, want 2", len(buttons))
	}
	if buttons[0].Label != "New Game" || buttons[1].Label != "Exit" {
		t.Errorf("labels = %q, %q", buttons[0].Label, buttons[1].Label)
	}
	if buttons[0].CenterY != config.IntroNewGameButtonY || buttons[1].CenterY != config.IntroExitButtonY {
		t.Errorf("button rows = %v, %v", buttons[0].CenterY, buttons[1].CenterY)
	}
	for _, b := range buttons {
		if b.Width != config.IntroButtonWidth || b.Height != config.IntroButtonHeight {
			t.Errorf("%s size = %vx%v", b.Label, b.Width, b.Height)
		}
		if b.CenterX != config.GameWindowWidth/2 {
			t.Errorf("%s centerX = %v", b.Label, b.CenterX)
		}
	}
}

func TestIntroSceneDrawWithoutFace(t *testing.T) {
	intro, _, _, _ := newTestIntro(t)
	screen := ebiten.NewImage(config.GameWindowWidth, config.GameWindowHeight)

	// 没有字体时只绘制按钮背景
	intro.Draw(screen)
}

func TestIntroSceneTitleFadesIn(t *testing.T) {
	intro, _, _, _ := newTestIntro(t)

	if got := intro.TitleAlpha(); got != 0 {
		t.Errorf("initial alpha = %v, want 0", got)
	}

	intro.elapsed = introTitleFadeSeconds / 2
	half := intro.TitleAlpha()
	if half <= 0.5 || half >= 1 {
		t.Errorf("alpha halfway = %v, want between 0.5 and 1 (ease out)", half)
	}

	intro.elapsed = introTitleFadeSeconds * 2
	if got := intro.TitleAlpha(); got != 1 {
		t.Errorf("alpha after fade = %v, want 1", got)
	}
}
