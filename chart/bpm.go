package chart

import "sort"

// BPMPoint is one piecewise-constant segment of the BPM list: "from this
// beat onward, the tempo is BPM" (SPEC_FULL.md glossary: BPM list).
type BPMPoint struct {
	Beat float64
	BPM  float64
}

// BPMList is the piecewise-constant tempo schedule shared by chart update
// (hold-particle cadence) and render. SPEC_FULL.md §9 calls for "interior
// mutability... enforce phase boundaries so only one phase at a time holds
// the exclusive borrow; no cross-phase aliasing". In a single-threaded
// per-frame loop that invariant is upheld by convention: callers obtain a
// *Borrow, use it for the duration of exactly one phase, and must not
// retain it past that phase. There is no lock; a held flag makes a second
// Borrow before Release panic.
type BPMList struct {
	points []BPMPoint
	held   bool // aliasing guard: Borrow panics while set
}

// NewBPMList builds a schedule from (beat, bpm) points, sorted by beat.
func NewBPMList(points []BPMPoint) *BPMList {
	pts := append([]BPMPoint(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Beat < pts[j].Beat })
	return &BPMList{points: pts}
}

// Borrow grants exclusive access for one phase. Release must be called
// before the next phase borrows.
type Borrow struct {
	list *BPMList
}

func (l *BPMList) Borrow() *Borrow {
	if l.held {
		panic("chart: BPMList borrowed across phase boundary")
	}
	l.held = true
	return &Borrow{list: l}
}

func (b *Borrow) Release() {
	b.list.held = false
}

// AtBeat returns the BPM in effect at the given beat (time-resolution
// path used by every format except the legacy one).
func (b *Borrow) AtBeat(beat float64) float64 {
	return b.list.atBeat(beat)
}

func (l *BPMList) atBeat(beat float64) float64 {
	if len(l.points) == 0 {
		return 120
	}
	idx := sort.Search(len(l.points), func(i int) bool { return l.points[i].Beat > beat })
	if idx == 0 {
		return l.points[0].BPM
	}
	return l.points[idx-1].BPM
}

// AtIndex resolves BPM by the point's array position rather than time, the
// legacy FormatPGR behavior preserved verbatim per SPEC_FULL.md §9 — it is
// deliberately not generalized to other formats.
func (b *Borrow) AtIndex(i int) float64 {
	if len(b.list.points) == 0 {
		return 120
	}
	if i < 0 {
		i = 0
	}
	if i >= len(b.list.points) {
		i = len(b.list.points) - 1
	}
	return b.list.points[i].BPM
}

// HeightAt integrates (bpm/120) over [0, t] seconds, the same unit Note
// .Height is expressed in (a "standard beats at 120bpm" scroll distance).
// render.DrawNotes uses this to derive each note's live scroll
// offset as (note.Height - HeightAt(now)) without needing a chart parser
// to have pre-populated a per-frame height track.
func (b *Borrow) HeightAt(t float64) float64 { return b.list.heightAt(t) }

func (l *BPMList) heightAt(t float64) float64 {
	if len(l.points) == 0 {
		return t * (120.0 / 120.0)
	}
	height := 0.0
	elapsed := 0.0
	for i, p := range l.points {
		var nextBeat float64
		if i+1 < len(l.points) {
			nextBeat = l.points[i+1].Beat
		} else {
			nextBeat = p.Beat + 1e9
		}
		segBeats := nextBeat - p.Beat
		segSeconds := segBeats * 60 / p.BPM
		rate := p.BPM / 120.0
		if elapsed+segSeconds >= t || i == len(l.points)-1 {
			remaining := t - elapsed
			if remaining < 0 {
				remaining = 0
			}
			return height + remaining*rate
		}
		height += segSeconds * rate
		elapsed += segSeconds
	}
	return height
}

// BeatToSeconds converts a beat position to the absolute time it falls at,
// the inverse of SecondsToBeat. Used to resolve a beat-based cull window
// (appear_before) into the time domain render works in.
func (b *Borrow) BeatToSeconds(beat float64) float64 { return b.list.beatToSeconds(beat) }

func (l *BPMList) beatToSeconds(beat float64) float64 {
	if len(l.points) == 0 {
		return beat * 60 / 120
	}
	t := 0.0
	for i, p := range l.points {
		var nextBeat float64
		if i+1 < len(l.points) {
			nextBeat = l.points[i+1].Beat
		} else {
			nextBeat = p.Beat + 1e9
		}
		if beat < nextBeat || i == len(l.points)-1 {
			return t + (beat-p.Beat)*60/p.BPM
		}
		t += (nextBeat - p.Beat) * 60 / p.BPM
	}
	return t
}

// SecondsToBeat converts an absolute time to a beat position by walking
// the piecewise BPM segments, the inverse of BeatToSeconds — used by the
// appear_before cull and the hold-particle BPM lookup.
func (b *Borrow) SecondsToBeat(t float64) float64 { return b.list.SecondsToBeat(t) }

func (l *BPMList) SecondsToBeat(t float64) float64 {
	if len(l.points) == 0 {
		return t * 120 / 60
	}
	beat := 0.0
	elapsed := 0.0
	for i, p := range l.points {
		var nextBeat float64
		if i+1 < len(l.points) {
			nextBeat = l.points[i+1].Beat
		} else {
			nextBeat = beat + 1e9 // open-ended last segment
		}
		segBeats := nextBeat - p.Beat
		segSeconds := segBeats * 60 / p.BPM
		if elapsed+segSeconds >= t || i == len(l.points)-1 {
			remaining := t - elapsed
			return p.Beat + remaining*p.BPM/60
		}
		elapsed += segSeconds
		beat = nextBeat
	}
	return beat
}
