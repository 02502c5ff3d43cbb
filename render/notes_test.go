package render

import (
	"testing"

	"beatline/chart"
	"beatline/config"
	"beatline/resource"

	"github.com/stretchr/testify/require"
)

func wideCull() CullRect {
	return CullRect{MinX: -1e6, MinY: -1e6, MaxX: 1e6, MaxY: 1e6}
}

func buildSingleNoteChart(n *chart.Note) *chart.Chart {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	b.AddLine(staticLine(0, 0, 0, 1, 1, 1))
	b.AddNote(0, n)
	c := b.Build()
	return c
}

func newRes() *resource.Snapshot {
	return resource.NewSnapshot(resource.DefaultPack(), config.Default())
}

// At 120bpm a note scheduled at Time=5.0 sits at beat 10; AppearBefore=2
// beats puts its appear time at beat 8, i.e. t=4.0s.
func TestDrawNotesCullsBeforeAppearWindow(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1})
	UpdateTransforms(c, 0)
	res := newRes()
	res.Config.AppearBefore = 2
	res.BeginFrame(4.0 - 0.01)

	DrawNotes(c, res, wideCull())

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesQueuesNoteOnceAppeared(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1})
	UpdateTransforms(c, 0)
	res := newRes()
	res.Config.AppearBefore = 2
	res.BeginFrame(4.0 + 0.01)

	DrawNotes(c, res, wideCull())

	require.Len(t, res.Batch.Sorted(), 1)
}

func TestDrawNotesAppearBeforeDisabledByDefaultRendersImmediately(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1})
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(0)

	DrawNotes(c, res, wideCull())

	require.Len(t, res.Batch.Sorted(), 1)
}

func TestDrawNotesCullsPastInvisibleTimeWindow(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1})
	UpdateTransforms(c, 0)
	res := newRes()
	res.Config.InvisibleTime = 1.0
	res.BeginFrame(5.0 - 1.0 + 0.01)

	DrawNotes(c, res, wideCull())

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesRendersJustBeforeInvisibleTimeWindow(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1})
	UpdateTransforms(c, 0)
	res := newRes()
	res.Config.InvisibleTime = 1.0
	res.BeginFrame(5.0 - 1.0 - 0.01)

	DrawNotes(c, res, wideCull())

	require.Len(t, res.Batch.Sorted(), 1)
}

func TestDrawNotesCullsResolvedNoteAfterFadeWindow(t *testing.T) {
	n := &chart.Note{Kind: chart.KindClick, Time: 1.0, Width: 1, Speed: 1}
	n.Judge.Kind = chart.Judged
	c := buildSingleNoteChart(n)
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(1.0 + fadeOutDuration + 0.01)

	DrawNotes(c, res, wideCull())

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesFadesResolvedNoteAlpha(t *testing.T) {
	n := &chart.Note{Kind: chart.KindClick, Time: 1.0, Width: 1, Speed: 1}
	n.Judge.Kind = chart.Judged
	c := buildSingleNoteChart(n)
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(1.0 + fadeOutDuration/2)

	DrawNotes(c, res, wideCull())

	quads := res.Batch.Sorted()
	require.Len(t, quads, 1)
	require.InDelta(t, 0.5, quads[0].Alpha, 1e-9)
}

func TestDrawNotesCullsOutsideCullRect(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1, PositionX: 1000})
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(5.0)

	DrawNotes(c, res, CullRect{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesSkipsInvisibleLine(t *testing.T) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	b.AddLine(staticLine(0, 0, 0, 1, 1, 0))
	b.AddNote(0, &chart.Note{Kind: chart.KindClick, Time: 5.0, Width: 1, Speed: 1})
	c := b.Build()
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(5.0)

	DrawNotes(c, res, wideCull())

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesSkipsLegacyZeroEndSpeedHold(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{
		Kind: chart.KindHold, Time: 1.0, Width: 1, Speed: 1,
		Hold: chart.HoldInfo{EndTime: 2.0, EndSpeed: 0},
	})
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(1.0)

	DrawNotes(c, res, wideCull())

	require.Empty(t, res.Batch.Sorted())
}

func TestDrawNotesHoldQueuesHeadBodyTail(t *testing.T) {
	c := buildSingleNoteChart(&chart.Note{
		Kind: chart.KindHold, Time: 1.0, Height: 1, Width: 1, Speed: 1,
		Hold: chart.HoldInfo{EndTime: 2.0, EndHeight: 2, EndSpeed: 1},
	})
	UpdateTransforms(c, 0)
	res := newRes()
	res.BeginFrame(1.0)

	DrawNotes(c, res, wideCull())

	quads := res.Batch.Sorted()
	require.GreaterOrEqual(t, len(quads), 2) // head + tail at minimum
	for _, q := range quads {
		require.Equal(t, chart.KindHold.Order(), q.Order)
	}
}

func TestDrawNotesOrderKeepsHoldBeforeClickBeforeFlick(t *testing.T) {
	require.Less(t, chart.KindHold.Order(), chart.KindDrag.Order())
	require.Less(t, chart.KindDrag.Order(), chart.KindClick.Order())
	require.Less(t, chart.KindClick.Order(), chart.KindFlick.Order())
}
