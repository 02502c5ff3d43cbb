package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestManager() (*Manager, *fakeClock) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	return NewWithClock(c), c
}

func TestResetStartsAtZero(t *testing.T) {
	m, _ := newTestManager()
	require.Equal(t, 0.0, m.Now())
}

func TestSeekRoundTrip(t *testing.T) {
	m, _ := newTestManager()
	m.SeekTo(5.0)
	require.InDelta(t, 5.0, m.Now(), 1e-9)
}

func TestFreeRunningAdvancesWithWallClockAtSpeed(t *testing.T) {
	m, c := newTestManager()
	m.mode = ModeFree
	c.advance(2 * time.Second)
	require.InDelta(t, 2.0, m.Now(), 1e-9)

	m.SetSpeed(2.0)
	c.advance(1 * time.Second)
	require.InDelta(t, 4.0, m.Now(), 1e-9)
}

func TestPauseThenResumeAdvancesByZero(t *testing.T) {
	m, c := newTestManager()
	m.mode = ModeFree
	c.advance(1 * time.Second)
	before := m.Now()
	m.Pause()
	c.advance(3 * time.Second) // wall clock moves, logical must not
	require.Equal(t, before, m.Now())

	m.Resume(false)
	c.advance(0)
	require.InDelta(t, before, m.Now(), 1e-9)
}

func TestUpdateSnapsOnLargeGap(t *testing.T) {
	m, c := newTestManager()
	m.EnterLocked()
	c.advance(1 * time.Second)
	// predicted ~= 1.0, audio reports far away -> snap
	got := m.Update(5.0)
	require.Equal(t, 5.0, got)
}

func TestUpdateBlendsOnSmallGap(t *testing.T) {
	m, c := newTestManager()
	m.EnterLocked()
	c.advance(1 * time.Second)
	// predicted ~= 1.0, audio reports 1.02 (small gap within snap threshold)
	got := m.Update(1.02)
	require.Greater(t, got, 1.0)
	require.Less(t, got, 1.02)
}

func TestUpdateMonotonicNonDecreasingAcrossFrames(t *testing.T) {
	m, c := newTestManager()
	m.EnterLocked()
	prev := m.Now()
	for i := 0; i < 50; i++ {
		c.advance(16 * time.Millisecond)
		cur := m.Update(prev + 0.016 + 0.002) // audio slightly ahead
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestCalibrationModeChangesForce(t *testing.T) {
	m, _ := newTestManager()
	require.Equal(t, ForcePlay, m.force)
	m.SetCalibrationMode(true)
	require.Equal(t, ForceCalibration, m.force)
	m.SetCalibrationMode(false)
	require.Equal(t, ForcePlay, m.force)
}
