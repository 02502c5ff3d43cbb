// Command beatline-demo drives a synthetically built chart (chart.Builder
// takes the place of a real chart parser, out of scope per SPEC_FULL.md
// §6) through the full timing -> chart update -> judge -> render ->
// effects -> scene pipeline, the way the teacher's main() wires a parsed
// MIDI file through Track/Note construction into one ebiten.Game.
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"beatline/chart"
	"beatline/config"
	"beatline/effect"
	"beatline/judge"
	"beatline/logging"
	"beatline/render"
	"beatline/resource"
	"beatline/scene"
	"beatline/timing"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

// buildDemoChart assembles a short hand-built chart: one static line
// carrying a handful of notes of every kind, standing in for a parsed
// chart file (out of scope, §6).
func buildDemoChart() *chart.Chart {
	b := chart.NewBuilder(12.0, []chart.BPMPoint{{Beat: 0, BPM: 120}})
	line := &chart.JudgeLine{Object: chart.StaticObject(0, 0, 0, 1, 1, 1)}
	li := b.AddLine(line)

	b.AddNote(li, &chart.Note{Kind: chart.KindClick, Time: 1.0, Width: 0.08, Speed: 1})
	b.AddNote(li, &chart.Note{Kind: chart.KindDrag, Time: 2.0, Width: 0.08, Speed: 1})
	b.AddNote(li, &chart.Note{Kind: chart.KindFlick, Time: 3.0, Width: 0.08, Speed: 1})
	b.AddNote(li, &chart.Note{
		Kind: chart.KindHold, Time: 4.0, Width: 0.08, Speed: 1,
		Hold: chart.HoldInfo{EndTime: 6.0, EndSpeed: 1},
	})
	b.AddNote(li, &chart.Note{Kind: chart.KindClick, Time: 7.0, Width: 0.08, Speed: 1, PositionX: 0.3})
	b.AddNote(li, &chart.Note{Kind: chart.KindClick, Time: 7.0, Width: 0.08, Speed: 1, PositionX: -0.3})

	return b.Build()
}

// game implements ebiten.Game, folding the whole pipeline's per-run state
// into one mutable struct each frame, exactly the teacher's Game shape.
type game struct {
	log *slog.Logger
	cfg config.Settings

	c  *chart.Chart
	tm *timing.Manager
	jg *judge.Judge
	sc *scene.Scene

	res *resource.Snapshot
	fx  *effect.Pipeline

	cull render.CullRect
}

func newGame() *game {
	cfg := config.Default()
	c := buildDemoChart()

	g := &game{
		log: logging.Default(),
		cfg: cfg,
		c:   c,
		tm:  timing.New(),
		sc:  scene.New(scene.ModeNormal, c.TrackLength, scene.ExerciseRange{Start: 0, End: c.TrackLength}),
		res: resource.NewSnapshot(resource.DefaultPack(), cfg),
		cull: render.CullRect{
			MinX: -2, MinY: -2, MaxX: 2, MaxY: 2,
		},
	}
	g.jg = judge.New(c, g.res.Particles)

	instances, err := effect.Build(c.Extras.Effects)
	if err != nil {
		g.log.Error("effect build failed", "err", err)
	}
	g.fx = effect.NewPipeline(instances, screenWidth, screenHeight)

	return g
}

func (g *game) Update() error {
	g.sc.ApplyCalibrationMode(g.tm)
	g.sc.CheckExerciseLoop(g.tm, g.c, g.jg)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sc.TogglePause(g.tm)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.tm.SeekTo(g.tm.Now() - 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.tm.SeekTo(g.tm.Now() + 5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return fmt.Errorf("quit requested")
	}

	now := g.sc.Advance(g.tm)

	render.UpdateTransforms(g.c, now)
	render.UpdateHoldParticles(g.c, now, g.tm.Speed(), g.res.Particles,
		g.res.Pack.FXPerfect, g.res.Pack.FXGood, false, false)

	touches := g.collectTouches()
	g.jg.Update(g.c, touches, now, judge.Options{
		Offset:   g.cfg.Offset,
		Autoplay: g.cfg.Autoplay,
	})

	g.res.BeginFrame(now)
	g.res.Alpha = g.sc.Alpha
	render.DrawNotes(g.c, g.res, g.cull)

	return nil
}

// collectTouches maps ebiten's cursor input into chart-space judge.Touch
// samples. A real build would also read ebiten.TouchIDs/TouchPosition for
// multi-touch input; the demo only needs one pointer to exercise every
// judged note kind.
func (g *game) collectTouches() []judge.Touch {
	var touches []judge.Touch
	x, y := ebiten.CursorPosition()
	wx := (float64(x)/screenWidth - 0.5) * 4
	wy := (float64(y)/screenHeight - 0.5) * 4
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		phase := judge.Stationary
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			phase = judge.Started
		}
		touches = append(touches, judge.Touch{ID: 1, X: wx, Y: wy, Phase: phase})
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		touches = append(touches, judge.Touch{ID: 1, X: wx, Y: wy, Phase: judge.Ended})
	}
	return touches
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)

	for _, q := range g.res.Batch.Sorted() {
		vector.DrawFilledRect(screen,
			float32(toScreenX(q.X))-float32(q.Width*screenScale/2),
			float32(toScreenY(q.Y))-float32(q.Height*screenScale/2),
			float32(q.Width*screenScale), float32(q.Height*screenScale),
			noteColor(q.Texture, float32(q.Alpha)), false)
	}

	rect := effect.FitChartRect(screenWidth, screenHeight, g.res.AspectRatio, g.res.ChartRatio)
	final := g.fx.Apply(screen, g.res.Time, rect)
	if final != screen {
		screen.DrawImage(final, nil)
	}

	res := g.jg.Score()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"time: %.2f phase: %s score: %d acc: %.4f combo: %d/%d",
		g.res.Time, g.sc.Phase, res.Score, res.Accuracy, g.jg.Combo, g.jg.MaxCombo))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

const screenScale = 120

func toScreenX(worldX float64) float64 { return screenWidth/2 + worldX*screenScale }
func toScreenY(worldY float64) float64 { return screenHeight/2 - worldY*screenScale }

var bgColor = colornames.Midnightblue

// noteColor picks a flat tint per texture handle; a real resource pack
// would look up the actual note-skin image here instead.
func noteColor(tex resource.NoteTexture, alpha float32) color.RGBA {
	base := colornames.Lightskyblue
	_ = tex
	return color.RGBA{R: base.R, G: base.G, B: base.B, A: uint8(alpha * 255)}
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("beatline demo")

	g := newGame()
	if err := ebiten.RunGame(g); err != nil {
		g.log.Error("run failed", "err", err)
		os.Exit(1)
	}
}
