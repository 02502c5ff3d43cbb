// Package particle implements the hit-particle and bad-note trail emitter
// shared by the chart update phase (hold particles, §4.2) and the judge
// state machine (hit bursts and bad-note trails, §4.4).
//
// Grounded on the teacher's per-frame shader-uniform mutation pattern
// (radialGradientShaderOpts.Uniforms["PctShow"/"Color"] set once per hit in
// Draw), generalized into a small append buffer of live particles, pruned
// of expired ones each frame, instead of a single shared uniform slot.
package particle

// Kind distinguishes the two emission shapes the spec names.
type Kind int

const (
	KindHitBurst Kind = iota
	KindBadTrail
)

// BadTime is the fade duration of a BadNote trail (§4.4).
const BadTime = 0.5

// Particle is one live emission.
type Particle struct {
	Kind      Kind
	X, Y      float64
	R, G, B, A float64
	SpawnTime float64
	Duration  float64
}

// Alive reports whether the particle should still render at time t.
func (p Particle) Alive(t float64) bool {
	return t >= p.SpawnTime && t < p.SpawnTime+p.Duration
}

// Progress returns how far through its life the particle is, in [0,1],
// clamped.
func (p Particle) Progress(t float64) float64 {
	if p.Duration <= 0 {
		return 1
	}
	v := (t - p.SpawnTime) / p.Duration
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Emitter is a single-writer append buffer, cleared of expired particles
// each frame (§5: "the particle emitter is single-writer").
type Emitter struct {
	live []Particle
}

// NewEmitter returns an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// EmitHitBurst adds a short hit-effect particle at (x,y) with the given
// color. render.UpdateHoldParticles passes fx_perfect or fx_good (§4.2);
// the judge's hit bursts (§4.4) are always white (1,1,1,1) and do not use
// the pack's effect colors.
func (e *Emitter) EmitHitBurst(x, y, r, g, b, a, now, duration float64) {
	e.live = append(e.live, Particle{
		Kind: KindHitBurst, X: x, Y: y, R: r, G: g, B: b, A: a,
		SpawnTime: now, Duration: duration,
	})
}

// EmitBadTrail adds a fading Bad-judgment trail (§4.4), fixed BadTime
// duration.
func (e *Emitter) EmitBadTrail(x, y, now float64) {
	e.live = append(e.live, Particle{
		Kind: KindBadTrail, X: x, Y: y, R: 1, G: 0.3, B: 0.3, A: 1,
		SpawnTime: now, Duration: BadTime,
	})
}

// Prune drops particles that have fully expired as of time t. Call once
// per frame before Live().
func (e *Emitter) Prune(t float64) {
	out := e.live[:0]
	for _, p := range e.live {
		if p.Alive(t) {
			out = append(out, p)
		}
	}
	e.live = out
}

// Live returns the currently-alive particles, for the render phase to
// draw.
func (e *Emitter) Live() []Particle {
	return e.live
}

// Count returns the number of currently-tracked (not yet pruned)
// particles.
func (e *Emitter) Count() int {
	return len(e.live)
}

// Clear drops every live particle immediately, for a run reset (§4.6
// Exercise-mode loop-back) rather than the gradual expiry Prune performs.
func (e *Emitter) Clear() {
	e.live = e.live[:0]
}
