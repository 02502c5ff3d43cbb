// Package audioengine implements the audio-playback boundary service of
// SPEC_FULL.md §6: decoding a chart's music track and exposing
// play/pause/seek/position plus fire-and-forget hitsound playback, behind
// an interface so the runtime packages never import an audio backend
// directly.
//
// Grounded directly on the teacher's audio setup
// (audio.NewContext(sampleRate), mp3.DecodeF32, audioContext.NewPlayerF32,
// p.Play/p.IsPlaying/p.Position/p.SetPosition).
package audioengine

import (
	"io"
	"time"
)

// Music is a single seekable, loop-free audio track (the chart's song).
type Music interface {
	Play() error
	Pause() error
	Paused() bool
	Position() time.Duration
	SeekTo(d time.Duration) error
	SetVolume(v float64)
	Close() error
}

// SFX is a short one-shot sound played without positional seeking (hit
// sounds, UI clicks).
type SFX interface {
	Play() error
	SetVolume(v float64)
}

// Engine is the factory boundary: it owns the shared sample-rate context
// and decodes readers into Music/SFX instances.
type Engine interface {
	LoadMusic(r io.Reader) (Music, error)
	LoadSFX(r io.Reader) (SFX, error)
	Close() error
}
