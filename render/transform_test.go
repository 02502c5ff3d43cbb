package render

import (
	"math"
	"testing"

	"beatline/chart"

	"github.com/stretchr/testify/require"
)

func staticLine(x, y, rotation, scaleX, scaleY, alpha float64) *chart.JudgeLine {
	return &chart.JudgeLine{Object: chart.StaticObject(x, y, rotation, scaleX, scaleY, alpha)}
}

func TestUpdateTransformsRootLineIsItsOwnLocal(t *testing.T) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	b.AddLine(staticLine(5, -3, 0, 1, 1, 1))
	c := b.Build()

	UpdateTransforms(c, 1.0)

	require.Equal(t, 5.0, c.Lines[0].Cache.World.X)
	require.Equal(t, -3.0, c.Lines[0].Cache.World.Y)
	require.True(t, c.Lines[0].Cache.Valid)
}

func TestUpdateTransformsComposesChildWithParent(t *testing.T) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	parentIdx := b.AddLine(staticLine(10, 0, math.Pi/2, 1, 1, 1))
	child := staticLine(1, 0, 0, 1, 1, 1)
	child.Parent = &parentIdx
	b.AddLine(child)
	c := b.Build()

	UpdateTransforms(c, 0)

	// parent rotated 90deg: child's local +1 on x becomes +1 on y in world
	require.InDelta(t, 10.0, c.Lines[1].Cache.World.X, 1e-9)
	require.InDelta(t, 1.0, c.Lines[1].Cache.World.Y, 1e-9)
}

func TestUpdateTransformsAlphaCompoundsMultiplicatively(t *testing.T) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	parentIdx := b.AddLine(staticLine(0, 0, 0, 1, 1, 0.5))
	child := staticLine(0, 0, 0, 1, 1, 0.5)
	child.Parent = &parentIdx
	b.AddLine(child)
	c := b.Build()

	UpdateTransforms(c, 0)

	require.InDelta(t, 0.25, c.Lines[1].Cache.World.Alpha, 1e-9)
}

func TestUpdateTransformsGuardsAgainstCycles(t *testing.T) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	aIdx := b.AddLine(staticLine(0, 0, 0, 1, 1, 1))
	bIdx := b.AddLine(staticLine(0, 0, 0, 1, 1, 1))
	c := b.Build()
	c.Lines[aIdx].Parent = &bIdx
	c.Lines[bIdx].Parent = &aIdx

	require.NotPanics(t, func() { UpdateTransforms(c, 0) })
}
