package scene

import (
	"testing"
	"time"

	"beatline/chart"
	"beatline/judge"
	"beatline/timing"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newHarness() (*Scene, *timing.Manager, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	tm := timing.NewWithClock(clk)
	s := New(ModeNormal, 10.0, ExerciseRange{Start: 0, End: 10})
	return s, tm, clk
}

func TestAdvanceStaysStartingUntilBeforeDuration(t *testing.T) {
	s, tm, clk := newHarness()

	clk.advance(500 * time.Millisecond)
	s.Advance(tm)
	require.Equal(t, PhaseStarting, s.Phase)
	require.Less(t, s.Alpha, 1.0)
}

func TestAdvanceEntersBeforeMusicAfterBeforeDuration(t *testing.T) {
	s, tm, clk := newHarness()

	clk.advance(time.Duration(BeforeDuration*1000+50) * time.Millisecond)
	s.Advance(tm)
	require.Equal(t, PhaseBeforeMusic, s.Phase)
	require.Equal(t, 1.0, s.Alpha)
}

func TestAdvanceEntersPlayingOnceTimeNonNegative(t *testing.T) {
	s, tm, clk := newHarness()
	clk.advance(time.Duration(BeforeDuration*1000+50) * time.Millisecond)
	s.Advance(tm) // -> BeforeMusic, tm reset+seek to Exercise.Start (0)

	s.Advance(tm) // now() should be >= 0 already
	require.Equal(t, PhasePlaying, s.Phase)
}

func TestAdvanceEntersEndingAfterTrackPlusWait(t *testing.T) {
	s, tm, _ := newHarness()
	s.Phase = PhasePlaying
	tm.SeekTo(s.TrackLength + WaitTime + 0.01)

	s.Advance(tm)
	require.Equal(t, PhaseEnding, s.Phase)
}

func TestAdvanceFinishesAfterEndingWindow(t *testing.T) {
	s, tm, _ := newHarness()
	s.Phase = PhaseEnding
	tm.SeekTo(s.TrackLength + WaitTime + AfterTime + 0.31)

	s.Advance(tm)
	require.True(t, s.Finished())
	require.Equal(t, 0.0, s.Alpha)
}

func TestStartingAlphaMonotonicRampToOne(t *testing.T) {
	require.Equal(t, 0.0, startingAlpha(0))
	require.InDelta(t, 1.0, startingAlpha(BeforeFadeTime), 1e-9)
	require.Equal(t, 1.0, startingAlpha(BeforeFadeTime+1))
	require.Less(t, startingAlpha(0.1), startingAlpha(0.5))
}

func TestEndingAlphaMonotonicRampToZero(t *testing.T) {
	require.Equal(t, 1.0, endingAlpha(0))
	require.Equal(t, 0.0, endingAlpha(AfterTime))
	require.Equal(t, 0.0, endingAlpha(AfterTime+1))
	require.Greater(t, endingAlpha(0.1), endingAlpha(0.5))
}

func TestHandlePauseTapRequiresSecondTapWhenDoubleClickEnabled(t *testing.T) {
	s, _, _ := newHarness()
	s.Phase = PhasePlaying

	s.HandlePauseTap(1.0, true)
	require.False(t, s.Paused)
	require.True(t, s.PauseIconVisible(1.0))

	s.HandlePauseTap(1.2, true)
	require.True(t, s.Paused)
}

func TestHandlePauseTapPausesImmediatelyWithoutDoubleClick(t *testing.T) {
	s, _, _ := newHarness()
	s.Phase = PhasePlaying

	s.HandlePauseTap(1.0, false)
	require.True(t, s.Paused)
}

func TestHandlePauseTapSecondTapTooLateRestartsWindow(t *testing.T) {
	s, _, _ := newHarness()
	s.Phase = PhasePlaying

	s.HandlePauseTap(1.0, true)
	s.HandlePauseTap(1.0+PauseClickInterval+0.01, true)
	require.False(t, s.Paused)
}

func TestTogglePauseOnlyActsWhilePlaying(t *testing.T) {
	s, tm, _ := newHarness()
	s.Phase = PhaseBeforeMusic

	s.TogglePause(tm)
	require.False(t, s.Paused)

	s.Phase = PhasePlaying
	s.TogglePause(tm)
	require.True(t, s.Paused)
	s.TogglePause(tm)
	require.False(t, s.Paused)
}

func newExerciseChartAndJudge() (*chart.Chart, *judge.Judge) {
	b := chart.NewBuilder(10, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	line := &chart.JudgeLine{Object: chart.StaticObject(0, 0, 0, 1, 1, 1)}
	li := b.AddLine(line)
	b.AddNote(li, &chart.Note{Kind: chart.KindClick, Time: 2.0})
	c := b.Build()
	j := judge.New(c, nil)
	return c, j
}

func TestCheckExerciseLoopSeeksBackAndPauses(t *testing.T) {
	s, tm, _ := newHarness()
	s.Mode = ModeExercise
	s.Exercise = ExerciseRange{Start: 1, End: 3}
	tm.SeekTo(3.5)
	c, j := newExerciseChartAndJudge()

	s.CheckExerciseLoop(tm, c, j)

	require.True(t, s.Paused)
	require.InDelta(t, 1.0, tm.Now(), 1e-6)
}

func TestCheckExerciseLoopResetsJudgeAndChartState(t *testing.T) {
	s, tm, _ := newHarness()
	s.Mode = ModeExercise
	s.Exercise = ExerciseRange{Start: 1, End: 3}
	c, j := newExerciseChartAndJudge()

	j.Update(c, nil, 2.0, judge.Options{Autoplay: true})
	require.Equal(t, chart.Judged, c.Lines[0].Notes[0].Judge.Kind)
	j.Combo = 5
	j.MaxCombo = 5

	tm.SeekTo(3.5)
	s.CheckExerciseLoop(tm, c, j)

	require.Equal(t, chart.NotJudged, c.Lines[0].Notes[0].Judge.Kind)
	require.Equal(t, 0, j.Combo)
	require.Equal(t, 0, j.MaxCombo)
}

func TestCheckExerciseLoopNoopOutsideExerciseMode(t *testing.T) {
	s, tm, _ := newHarness()
	tm.SeekTo(100)
	c, j := newExerciseChartAndJudge()

	s.CheckExerciseLoop(tm, c, j)

	require.False(t, s.Paused)
}
