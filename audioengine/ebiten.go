package audioengine

import (
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/pkg/errors"
)

// SampleRate matches the teacher's audio.NewContext(sampleRate) call.
const SampleRate = 44100

// EbitenEngine implements Engine over ebiten's audio package, exactly the
// teacher's audio.NewContext/audio.NewPlayerF32/mp3.DecodeF32 call chain,
// generalized to also decode short SFX clips sharing the same context.
type EbitenEngine struct {
	ctx *audio.Context
}

// NewEbitenEngine constructs the shared audio context. Only one should
// exist per process; ebiten panics if audio.NewContext is called twice
// with conflicting sample rates.
func NewEbitenEngine() *EbitenEngine {
	return &EbitenEngine{ctx: audio.NewContext(SampleRate)}
}

func (e *EbitenEngine) LoadMusic(r io.Reader) (Music, error) {
	stream, err := mp3.DecodeF32(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode music")
	}
	p, err := e.ctx.NewPlayerF32(stream)
	if err != nil {
		return nil, errors.Wrap(err, "create music player")
	}
	return &ebitenMusic{player: p}, nil
}

func (e *EbitenEngine) LoadSFX(r io.Reader) (SFX, error) {
	stream, err := mp3.DecodeF32(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode sfx")
	}
	p, err := e.ctx.NewPlayerF32(stream)
	if err != nil {
		return nil, errors.Wrap(err, "create sfx player")
	}
	return &ebitenSFX{player: p}, nil
}

func (e *EbitenEngine) Close() error { return nil }

type ebitenMusic struct {
	player *audio.Player
}

func (m *ebitenMusic) Play() error {
	m.player.Play()
	return nil
}

func (m *ebitenMusic) Pause() error {
	m.player.Pause()
	return nil
}

func (m *ebitenMusic) Paused() bool { return !m.player.IsPlaying() }

func (m *ebitenMusic) Position() time.Duration { return m.player.Position() }

func (m *ebitenMusic) SeekTo(d time.Duration) error {
	return errors.Wrap(m.player.SetPosition(d), "seek music")
}

func (m *ebitenMusic) SetVolume(v float64) { m.player.SetVolume(v) }

func (m *ebitenMusic) Close() error { return errors.Wrap(m.player.Close(), "close music player") }

type ebitenSFX struct {
	player *audio.Player
}

// Play rewinds to the start and plays, so the same short clip can be
// re-triggered for consecutive hits (a real hitsound pool would clone
// players instead of serializing replays through one, but that pooling is
// outside this boundary's scope, §6).
func (s *ebitenSFX) Play() error {
	if err := s.player.SetPosition(0); err != nil {
		return errors.Wrap(err, "rewind sfx")
	}
	s.player.Play()
	return nil
}

func (s *ebitenSFX) SetVolume(v float64) { s.player.SetVolume(v) }
