// Package chart implements the data model of SPEC_FULL.md §3: the parsed,
// immutable-in-shape representation of a playable chart. Construction is
// the concern of out-of-scope parsers (§6); this package only defines the
// shape and the few derived structures (render order, multiple-hint flag)
// that depend on cross-line invariants.
package chart

import "sort"

// LineKind distinguishes a JudgeLine's visual role.
type LineKind int

const (
	LineNormal LineKind = iota
	LineTextured
	LineText
)

// Object is the animated translation/rotation/scale/alpha/color of a
// JudgeLine, evaluated once per frame by render.Transform (§4.2).
type Object struct {
	Time float64 // set to res.time each frame before evaluation

	X     Keyframes
	Y     Keyframes
	Rotation Keyframes
	ScaleX   Keyframes
	ScaleY   Keyframes
	Alpha    Keyframes

	ColorR Keyframes
	ColorG Keyframes
	ColorB Keyframes
}

// ObjectState is the value of every Object channel at one time.
type ObjectState struct {
	X, Y               float64
	Rotation           float64
	ScaleX, ScaleY     float64
	Alpha              float64
	R, G, B            float64
}

// Eval samples every animated channel at o.Time.
func (o *Object) Eval() ObjectState {
	return ObjectState{
		X:        o.X.Eval(o.Time),
		Y:        o.Y.Eval(o.Time),
		Rotation: o.Rotation.Eval(o.Time),
		ScaleX:   orDefault(o.ScaleX, o.Time, 1),
		ScaleY:   orDefault(o.ScaleY, o.Time, 1),
		Alpha:    orDefault(o.Alpha, o.Time, 1),
		R:        orDefault(o.ColorR, o.Time, 1),
		G:        orDefault(o.ColorG, o.Time, 1),
		B:        orDefault(o.ColorB, o.Time, 1),
	}
}

func orDefault(ks Keyframes, t, def float64) float64 {
	if len(ks) == 0 {
		return def
	}
	return ks.Eval(t)
}

// TransformCache holds the result of evaluating a line's Object plus its
// composition with the parent line, recomputed once per frame (§4.2 step
//2) and read by both note update and render for the rest of that frame.
type TransformCache struct {
	World ObjectState
	Valid bool
}

// JudgeLine is a positioned, animated, optionally textured reference line
// carrying notes (§3).
type JudgeLine struct {
	Kind LineKind

	Object Object
	Notes  []*Note

	ZIndex int

	// UIAttach is the slot index (0-6) this line is bound to for HUD
	// rendering, or -1 if the line is a normal playing-field line.
	UIAttach int

	Incline float64 // incline angle, radians

	Parent *int // father-line index, nil if root

	Cache TransformCache

	// Index is this line's position in Chart.Lines, needed for the
	// render-order derivation and parent lookups.
	Index int
}

// Settings carries the per-chart boolean toggles of §3.
type Settings struct {
	HoldPartialCover  bool
	PEAlphaExtension  bool
}

// Extras bundles chart features orthogonal to judge lines (§3).
type Extras struct {
	Effects []EffectSpec
	Videos  []VideoSpec
}

// EffectSpec is the chart-authored configuration for one post-processing
// effect instance; effect.Pipeline consumes these (§4.5).
type EffectSpec struct {
	Preset    string
	Global    bool
	StartTime float64
	EndTime   float64
	Uniforms  map[string]EffectUniform
}

// EffectUniform is either a constant or a keyframe-animated uniform value
// supplied by the chart, generalized over up to 4 components.
type EffectUniform struct {
	Components int // 1 (float), 2 (vec2), or 4 (vec4)
	Constant   [4]float64
	Animated   [4]Keyframes
	IsAnimated bool
}

// VideoSpec is a best-effort video overlay (§4.2 step 4); playback itself
// is an out-of-scope boundary concern, only timing bookkeeping lives here.
type VideoSpec struct {
	Path      string
	StartTime float64
	EndTime   float64
}

// Chart is the root of the data model (§3).
type Chart struct {
	Offset   float64 // seconds
	Lines    []*JudgeLine
	BPM      *BPMList
	Settings Settings
	Extras   Extras

	// UISlots maps UI-attachment slot (0-6) to a line index, or -1 if
	// unbound (§3: "a length-7 mapping from UI-attachment slot to line
	// index").
	UISlots [7]int

	// RenderOrder is the derived array of non-UI-attached line indices,
	// stable-sorted by (ZIndex, Index) — invariant 4.
	RenderOrder []int

	TrackLength float64
}

// BeforeDuration is the amount of negative time allowed before track start
// (invariant 5), matching the scene's BEFORE_DURATION.
const BeforeDuration = 1.2

// Finalize derives RenderOrder, UISlots, per-line Index, per-note Index,
// sorts notes within each line (invariant 1), and computes MultipleHint
// (invariant 2). Call once after a parser (or chart.Builder) populates
// Lines.
func (c *Chart) Finalize() {
	for i := range c.UISlots {
		c.UISlots[i] = -1
	}

	order := make([]int, 0, len(c.Lines))
	for i, line := range c.Lines {
		line.Index = i
		if line.UIAttach >= 0 && line.UIAttach < len(c.UISlots) {
			c.UISlots[line.UIAttach] = i
		} else {
			order = append(order, i)
		}
		sortNotes(line.Notes)
		for j, n := range line.Notes {
			n.Index = j
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := c.Lines[order[i]], c.Lines[order[j]]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.Index < b.Index
	})
	c.RenderOrder = order

	c.computeMultipleHint()
}

// sortNotes implements invariant 1: sorted by time, then Kind.Order() for
// simultaneous events.
func sortNotes(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Kind.Order() < notes[j].Kind.Order()
	})
}

// Reset restores every note's run-mutable JudgeState to its zero value,
// without touching the immutable chart shape. Used on Exercise-mode
// loop-back (§4.6), which re-judges every note from scratch each lap.
func (c *Chart) Reset() {
	for _, line := range c.Lines {
		for _, n := range line.Notes {
			n.Judge = JudgeState{}
		}
	}
}

// multipleHintEpsilon is the time tolerance of invariant 2.
const multipleHintEpsilon = 1e-4

// computeMultipleHint implements invariant 2: MultipleHint iff some other
// note across all lines shares the same Time within multipleHintEpsilon.
func (c *Chart) computeMultipleHint() {
	type stamp struct {
		time float64
		note *Note
	}
	all := make([]stamp, 0)
	for _, line := range c.Lines {
		for _, n := range line.Notes {
			all = append(all, stamp{n.Time, n})
			n.MultipleHint = false
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].time < all[j].time })
	for i := range all {
		for j := i + 1; j < len(all) && all[j].time-all[i].time <= multipleHintEpsilon; j++ {
			all[i].note.MultipleHint = true
			all[j].note.MultipleHint = true
		}
		for j := i - 1; j >= 0 && all[i].time-all[j].time <= multipleHintEpsilon; j-- {
			all[i].note.MultipleHint = true
		}
	}
}
