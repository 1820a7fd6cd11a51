package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/msgpace/pkg/msgbuf"
	"gopkg.in/yaml.v3"
)

// MessageBufferConfigPath is the embedded location of the message buffer config.
const MessageBufferConfigPath = "data/message_buffer.yaml"

// MessageBufferConfig describes reading speed, fading and layout of the message log.
//
// Config file: data/message_buffer.yaml
type MessageBufferConfig struct {
	// LetterReadDuration is the reading rate in seconds per character.
	LetterReadDuration float64 `yaml:"letterReadDuration"`

	// MinReadDuration is the shortest time any entry stays on screen.
	MinReadDuration float64 `yaml:"minReadDuration"`

	// FadeDuration is the length of the fade-out before an entry expires. 0 disables fading.
	FadeDuration float64 `yaml:"fadeDuration"`

	// BacklogWarning logs a warning once this many seconds of text are waiting. 0 disables it.
	BacklogWarning float64 `yaml:"backlogWarning"`

	TextColor HexColor `yaml:"textColor"`
	EdgeColor HexColor `yaml:"edgeColor"`

	// MessageOrigin is the top-left corner of the oldest message line.
	MessageOrigin Point `yaml:"messageOrigin"`

	// LineSpacing is added to the font line height between messages.
	LineSpacing float64 `yaml:"lineSpacing"`

	// CaptionY is the top of the caption line. Captions are centered horizontally.
	CaptionY float64 `yaml:"captionY"`
}

// HexColor is a color written as "#RRGGBB" or "#RRGGBBAA" in YAML.
type HexColor color.RGBA

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = HexColor(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c HexColor) MarshalYAML() (interface{}, error) {
	n := color.NRGBAModel.Convert(color.RGBA(c)).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
// The alpha component is applied as premultiplied alpha.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}

	nrgba := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(nrgba).(color.RGBA), nil
}

// DefaultMessageBufferConfig returns the config used when the file is missing or broken.
func DefaultMessageBufferConfig() *MessageBufferConfig {
	return &MessageBufferConfig{
		LetterReadDuration: 0.05,
		MinReadDuration:    1.0,
		FadeDuration:       0.5,
		BacklogWarning:     60,
		TextColor:          HexColor{R: 255, G: 242, B: 0, A: 255},
		EdgeColor:          HexColor{R: 0, G: 0, B: 0, A: 255},
		MessageOrigin:      Point{X: 12, Y: 12},
		LineSpacing:        4,
		CaptionY:           260,
	}
}

// ParseMessageBufferConfig decodes and validates a YAML document.
// Fields missing from the document keep their default values.
func ParseMessageBufferConfig(data []byte) (*MessageBufferConfig, error) {
	cfg := DefaultMessageBufferConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse message buffer config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message buffer config: %w", err)
	}

	return cfg, nil
}

// LoadMessageBufferConfig loads the message buffer config from the file system.
//
// Parameters:
//   - path: config file path (e.g. "data/message_buffer.yaml")
//
// Returns:
//   - *MessageBufferConfig: the validated config
//   - error: read, parse or validation failure
func LoadMessageBufferConfig(path string) (*MessageBufferConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message buffer config: %w", err)
	}
	return ParseMessageBufferConfig(data)
}

// Validate checks that durations are usable.
func (c *MessageBufferConfig) Validate() error {
	if c.LetterReadDuration <= 0 {
		return fmt.Errorf("letterReadDuration must be > 0, got %.3f", c.LetterReadDuration)
	}
	if c.MinReadDuration < 0 {
		return fmt.Errorf("minReadDuration must be >= 0, got %.3f", c.MinReadDuration)
	}
	if c.FadeDuration < 0 {
		return fmt.Errorf("fadeDuration must be >= 0, got %.3f", c.FadeDuration)
	}
	if c.BacklogWarning < 0 {
		return fmt.Errorf("backlogWarning must be >= 0, got %.1f", c.BacklogWarning)
	}
	return nil
}

// ToBufferConfig converts the file config into a msgbuf.Config for a screen
// screenWidth pixels wide.
func (c *MessageBufferConfig) ToBufferConfig(screenWidth float64) msgbuf.Config {
	return msgbuf.Config{
		LetterReadDuration: c.LetterReadDuration,
		MinReadDuration:    c.MinReadDuration,
		FadeDuration:       c.FadeDuration,
		MessageX:           c.MessageOrigin.X,
		MessageY:           c.MessageOrigin.Y,
		LineSpacing:        c.LineSpacing,
		CaptionCenterX:     screenWidth / 2,
		CaptionY:           c.CaptionY,
		TextColor:          color.RGBA(c.TextColor),
		EdgeColor:          color.RGBA(c.EdgeColor),
		BacklogWarning:     c.BacklogWarning,
	}
}
