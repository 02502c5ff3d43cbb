// Package resource implements the per-run Resource state of SPEC_FULL.md
// §3/§4.3: current time, alpha, aspect ratio, camera/offscreen target,
// note-batch buffer, resource-pack references, and configuration snapshot.
//
// Grounded on the teacher's Game struct, which folds exactly this kind of
// per-run state (noteMin/noteHeight/xTranslate, shader uniform bags,
// player) into one struct mutated every Update/Draw call.
package resource

import (
	"beatline/config"
	"beatline/particle"
)

// NoteTexture identifies a resource-pack texture by an opaque handle; the
// real resource-pack loader (out of scope, §1) would return GL texture
// IDs here.
type NoteTexture int

// Pack aggregates the textures, hit-effect color, and hitsounds a resource
// pack provides. The loader that builds one is an out-of-scope boundary
// service (§1); this module only consumes the interface.
type Pack struct {
	ClickTexture NoteTexture
	DragTexture  NoteTexture
	FlickTexture NoteTexture
	HoldHeadTexture NoteTexture
	HoldBodyTexture NoteTexture
	HoldTailTexture NoteTexture

	HoldRepeat bool // tiled vs stretched body flag (§4.3); render.DrawNotes does not read it and always stretches the body
	KeepHoldHead bool // style keeps the head drawn past note.Time (§4.3)

	FXPerfect [4]float64 // r,g,b,a
	FXGood    [4]float64

	Hitsounds map[string]int // label -> sfx handle, resolved by audioengine
}

// DefaultPack returns a minimal pack with sane placeholder handles, used
// by tests and the demo binary where no real resource-pack loader exists.
func DefaultPack() *Pack {
	return &Pack{
		FXPerfect: [4]float64{1, 0.85, 0.3, 1},
		FXGood:    [4]float64{0.4, 0.8, 1, 1},
		Hitsounds: map[string]int{},
	}
}

// Snapshot is the per-run mutable Resource of §3, rebuilt/updated once per
// frame by the game loop.
type Snapshot struct {
	Time         float64
	Alpha        float64
	AspectRatio  float64
	ChartRatio   float64

	Pack *Pack

	Batch *NoteBatch

	Particles *particle.Emitter

	Config config.Settings // live fields (speed, volume, disable_audio)

	ChartDebug bool // chart-debug flag; render does not read it, so holds with end_speed==0 are skipped whatever its value
}

// NewSnapshot builds a Resource state for one run.
func NewSnapshot(pack *Pack, cfg config.Settings) *Snapshot {
	return &Snapshot{
		Alpha:       1,
		AspectRatio: 16.0 / 9.0,
		ChartRatio:  cfg.ChartRatio,
		Pack:        pack,
		Batch:       NewNoteBatch(),
		Particles:   particle.NewEmitter(),
		Config:      cfg,
	}
}

// BeginFrame clears the per-frame note batch, the way the teacher rebuilds
// baseImage fresh every Draw call.
func (s *Snapshot) BeginFrame(t float64) {
	s.Time = t
	s.Batch.Reset()
}
