package render

import (
	"testing"

	"beatline/chart"
	"beatline/particle"

	"github.com/stretchr/testify/require"
)

func TestUpdateHoldParticlesEmitsOnlyForActiveHold(t *testing.T) {
	n := &chart.Note{Kind: chart.KindHold, Time: 1.0, Speed: 1, Hold: chart.HoldInfo{EndTime: 2.0}}
	c := buildSingleNoteChart(n)
	UpdateTransforms(c, 1.0)
	em := particle.NewEmitter()

	UpdateHoldParticles(c, 1.0, 1.0, em, [4]float64{1, 0, 0, 1}, [4]float64{0, 1, 0, 1}, false, false)
	require.Equal(t, 0, em.Count()) // not yet HoldActive

	n.Judge.Kind = chart.HoldActive
	n.Judge.NextParticleTime = 1.0
	UpdateHoldParticles(c, 1.0, 1.0, em, [4]float64{1, 0, 0, 1}, [4]float64{0, 1, 0, 1}, false, false)
	require.Equal(t, 1, em.Count())
}

func TestUpdateHoldParticlesAdvancesNextParticleTime(t *testing.T) {
	n := &chart.Note{Kind: chart.KindHold, Time: 1.0, Speed: 1, Hold: chart.HoldInfo{EndTime: 2.0}}
	n.Judge.Kind = chart.HoldActive
	n.Judge.NextParticleTime = 1.0
	c := buildSingleNoteChart(n)
	UpdateTransforms(c, 1.0)
	em := particle.NewEmitter()

	UpdateHoldParticles(c, 1.0, 1.0, em, [4]float64{1, 0, 0, 1}, [4]float64{0, 1, 0, 1}, false, false)

	require.Greater(t, n.Judge.NextParticleTime, float32(1.0))
}
