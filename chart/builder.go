package chart

// Builder assembles a Chart by hand, the way the teacher's startRender
// hand-builds its Track/Note slices instead of parsing a real file format
// (no parser ships with this module; see SPEC_FULL.md §6). Tests and the
// demo binary use this instead of a chart parser.
type Builder struct {
	c *Chart
}

// NewBuilder starts a chart with the given track length and BPM schedule.
func NewBuilder(trackLength float64, bpm []BPMPoint) *Builder {
	return &Builder{c: &Chart{
		TrackLength: trackLength,
		BPM:         NewBPMList(bpm),
	}}
}

// AddLine appends a judge line and returns its index for AddNote calls.
func (b *Builder) AddLine(line *JudgeLine) int {
	idx := len(b.c.Lines)
	line.UIAttach = -1
	b.c.Lines = append(b.c.Lines, line)
	return idx
}

// AddNote appends a note to the line at lineIdx.
func (b *Builder) AddNote(lineIdx int, n *Note) {
	b.c.Lines[lineIdx].Notes = append(b.c.Lines[lineIdx].Notes, n)
}

// Build finalizes and returns the chart.
func (b *Builder) Build() *Chart {
	b.c.Finalize()
	return b.c
}

// StaticObject builds an Object holding constant values for its whole
// duration — useful for lines that never move.
func StaticObject(x, y, rotation, scaleX, scaleY, alpha float64) Object {
	return Object{
		X:        Keyframes{{Time: 0, Value: x}},
		Y:        Keyframes{{Time: 0, Value: y}},
		Rotation: Keyframes{{Time: 0, Value: rotation}},
		ScaleX:   Keyframes{{Time: 0, Value: scaleX}},
		ScaleY:   Keyframes{{Time: 0, Value: scaleY}},
		Alpha:    Keyframes{{Time: 0, Value: alpha}},
		ColorR:   Keyframes{{Time: 0, Value: 1}},
		ColorG:   Keyframes{{Time: 0, Value: 1}},
		ColorB:   Keyframes{{Time: 0, Value: 1}},
	}
}
