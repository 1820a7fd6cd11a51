package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestParseHexColor tests hex color parsing in both supported forms.
func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{name: "opaque", input: "#fff200", want: color.RGBA{R: 255, G: 242, B: 0, A: 255}},
		{name: "no hash", input: "000000", want: color.RGBA{A: 255}},
		{name: "with alpha is premultiplied", input: "#ff000080", want: color.RGBA{R: 128, A: 128}},
		{name: "too short", input: "#fff", wantErr: true},
		{name: "not hex", input: "#gggggg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseMessageBufferConfig tests decoding a full document.
func TestParseMessageBufferConfig(t *testing.T) {
	data := []byte(`
letterReadDuration: 0.08
minReadDuration: 0.4
fadeDuration: 0.25
textColor: "#c4ffc4"
edgeColor: "#102030"
messageOrigin:
  x: 20
  y: 30
lineSpacing: 3
captionY: 200
`)

	cfg, err := ParseMessageBufferConfig(data)
	if err != nil {
		t.Fatalf("ParseMessageBufferConfig() error: %v", err)
	}

	if cfg.LetterReadDuration != 0.08 {
		t.Errorf("LetterReadDuration = %v, want 0.08", cfg.LetterReadDuration)
	}
	if cfg.MinReadDuration != 0.4 {
		t.Errorf("MinReadDuration = %v, want 0.4", cfg.MinReadDuration)
	}
	if cfg.TextColor != (HexColor{R: 0xc4, G: 0xff, B: 0xc4, A: 0xff}) {
		t.Errorf("TextColor = %v", cfg.TextColor)
	}
	if cfg.EdgeColor != (HexColor{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("EdgeColor = %v", cfg.EdgeColor)
	}
	if cfg.MessageOrigin != (Point{X: 20, Y: 30}) {
		t.Errorf("MessageOrigin = %v", cfg.MessageOrigin)
	}
	// Not in the document, keeps the default.
	if cfg.BacklogWarning != DefaultMessageBufferConfig().BacklogWarning {
		t.Errorf("BacklogWarning = %v, want default", cfg.BacklogWarning)
	}
}

// TestParseMessageBufferConfigErrors tests that broken documents are rejected.
func TestParseMessageBufferConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "zero letter duration", data: "letterReadDuration: 0", wantMsg: "letterReadDuration"},
		{name: "negative floor", data: "minReadDuration: -1", wantMsg: "minReadDuration"},
		{name: "negative fade", data: "fadeDuration: -0.5", wantMsg: "fadeDuration"},
		{name: "bad color", data: `textColor: "red"`, wantMsg: "invalid color"},
		{name: "not yaml", data: "letterReadDuration: [", wantMsg: "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessageBufferConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

// TestLoadMessageBufferConfig tests loading from a file.
func TestLoadMessageBufferConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message_buffer.yaml")
	if err := os.WriteFile(path, []byte("letterReadDuration: 0.1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadMessageBufferConfig(path)
	if err != nil {
		t.Fatalf("LoadMessageBufferConfig() error: %v", err)
	}
	if cfg.LetterReadDuration != 0.1 {
		t.Errorf("LetterReadDuration = %v, want 0.1", cfg.LetterReadDuration)
	}

	if _, err := LoadMessageBufferConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadShippedMessageBufferConfig tests the config file shipped in data/.
func TestLoadShippedMessageBufferConfig(t *testing.T) {
	cfg, err := LoadMessageBufferConfig(filepath.Join("..", "..", MessageBufferConfigPath))
	if err != nil {
		t.Fatalf("shipped config does not load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("shipped config invalid: %v", err)
	}
}

// TestHexColorRoundTrip tests that marshalled colors decode to the same value.
func TestHexColorRoundTrip(t *testing.T) {
	for _, c := range []HexColor{{R: 1, G: 2, B: 3, A: 255}, {R: 128, A: 128}} {
		out, err := yaml.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var back HexColor
		if err := yaml.Unmarshal(out, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", out, err)
		}
		if back != c {
			t.Errorf("round trip %v -> %s -> %v", c, out, back)
		}
	}
}

// TestHexColorMarshalYAML tests the hex form written back to YAML.
func TestHexColorMarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		in   HexColor
		want string
	}{
		{name: "opaque", in: HexColor{R: 255, G: 242, A: 255}, want: "#fff200"},
		{name: "premultiplied half", in: HexColor{R: 128, A: 128}, want: "#ff000080"},
		{name: "transparent", in: HexColor{}, want: "#00000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML: %v", err)
			}
			if got != tt.want {
				t.Errorf("MarshalYAML() = %v, want %q", got, tt.want)
			}
		})
	}

	out, err := yaml.Marshal(struct {
		Text HexColor `yaml:"textColor"`
	}{HexColor{R: 255, G: 242, A: 255}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), "#fff200") {
		t.Errorf("marshalled struct = %q, want textColor #fff200", out)
	}
}

// TestToBufferConfig tests conversion into the buffer's config.
func TestToBufferConfig(t *testing.T) {
	cfg := DefaultMessageBufferConfig()
	bc := cfg.ToBufferConfig(GameWindowWidth)

	if bc.CaptionCenterX != GameWindowWidth/2 {
		t.Errorf("CaptionCenterX = %v, want %v", bc.CaptionCenterX, GameWindowWidth/2)
	}
	if bc.LetterReadDuration != cfg.LetterReadDuration {
		t.Errorf("LetterReadDuration = %v, want %v", bc.LetterReadDuration, cfg.LetterReadDuration)
	}
	if bc.TextColor != color.RGBA(cfg.TextColor) {
		t.Errorf("TextColor = %v, want %v", bc.TextColor, cfg.TextColor)
	}
	if bc.MessageX != cfg.MessageOrigin.X || bc.MessageY != cfg.MessageOrigin.Y {
		t.Errorf("message origin = (%v, %v), want %v", bc.MessageX, bc.MessageY, cfg.MessageOrigin)
	}
}
