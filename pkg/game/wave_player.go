package game

import (
	"encoding/binary"
	"io"
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioSampleRate 音频上下文采样率
const AudioSampleRate = 48000

// Wave 是以秒为自变量的波形函数，返回值应在 -1.0 ~ 1.0 之间
type Wave func(t float64) float64

// WaveStreamer 把波形函数采样为 beep.Streamer
//
// 参数：
//   - f: 波形函数
//   - sr: 采样率
//   - seconds: 持续时间（秒），流在结束后返回 ok=false
func WaveStreamer(f Wave, sr beep.SampleRate, seconds float64) beep.Streamer {
	var n int
	wave := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := clampSample(f(float64(n) / float64(sr)))
			samples[i][0], samples[i][1] = v, v
			n++
		}
		return len(samples), true
	})
	return beep.Take(sr.N(time.Duration(seconds*float64(time.Second))), wave)
}

func clampSample(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// f32Reader 把 beep.Streamer 转换为 32 位浮点小端立体声字节流
// 即 audio.Context.NewPlayerF32 需要的格式
type f32Reader struct {
	streamer beep.Streamer
	buf      [][2]float64
}

const f32FrameSize = 8 // 2 声道 * 4 字节

func newF32Reader(s beep.Streamer) *f32Reader {
	return &f32Reader{streamer: s}
}

// Read implements io.Reader.
func (r *f32Reader) Read(p []byte) (int, error) {
	frames := len(p) / f32FrameSize
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]

	n, ok := r.streamer.Stream(buf)
	if n == 0 && !ok {
		if err := r.streamer.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i := 0; i < n; i++ {
		off := i * f32FrameSize
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(buf[i][0])))
		binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(float32(buf[i][1])))
	}
	return n * f32FrameSize, nil
}

// WavePlayer 合成并播放简单波形音效
// 波形由 beep 采样，经 ebiten audio 输出，音量和开关跟随 SettingsManager
type WavePlayer struct {
	context         *audio.Context   // 音频上下文，可为 nil（静音模式）
	settingsManager *SettingsManager // 设置管理器，可为 nil
	players         []*audio.Player  // 正在播放的播放器，防止被回收
}

// NewWavePlayer 创建波形播放器
//
// 参数：
//   - ctx: ebiten 音频上下文，为 nil 时所有播放请求都被忽略
//   - sm: SettingsManager 实例（可为 nil）
func NewWavePlayer(ctx *audio.Context, sm *SettingsManager) *WavePlayer {
	return &WavePlayer{
		context:         ctx,
		settingsManager: sm,
	}
}

// AddWave 播放持续 seconds 秒的波形 f
//
// 返回：
//   - bool: 是否成功开始播放
func (wp *WavePlayer) AddWave(f Wave, seconds float64) bool {
	if wp.context == nil || f == nil || seconds <= 0 {
		return false
	}

	volume := 1.0
	if wp.settingsManager != nil {
		settings := wp.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false // 音效已禁用
		}
		volume = settings.SoundVolume
	}

	wp.prune()

	sr := beep.SampleRate(wp.context.SampleRate())
	player, err := wp.context.NewPlayerF32(newF32Reader(WaveStreamer(f, sr, seconds)))
	if err != nil {
		log.Printf("[WavePlayer] Warning: Failed to create player: %v", err)
		return false
	}
	player.SetVolume(volume)
	player.Play()
	wp.players = append(wp.players, player)

	log.Printf("[WavePlayer] Playing %.1fs wave (volume: %.2f)", seconds, volume)
	return true
}

// Playing 返回仍在播放的波形数量
func (wp *WavePlayer) Playing() int {
	wp.prune()
	return len(wp.players)
}

// prune 释放已播放完毕的播放器
func (wp *WavePlayer) prune() {
	live := wp.players[:0]
	for _, p := range wp.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("[WavePlayer] Warning: Failed to close player: %v", err)
		}
	}
	for i := len(live); i < len(wp.players); i++ {
		wp.players[i] = nil
	}
	wp.players = live
}
