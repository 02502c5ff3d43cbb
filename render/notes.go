package render

import (
	"math"

	"beatline/chart"
	"beatline/resource"
)

// fadeOutDuration is how long a resolved note lingers, fading to
// transparent, before culling entirely (§4.3).
const fadeOutDuration = 0.16

// noteScale is the authored-width-to-draw-width multiplier; a real
// resource pack would make this configurable per note skin.
const noteScale = 1.0

// CullRect is an axis-aligned rectangle in world space notes are tested
// against before being queued for draw (§4.3).
type CullRect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r CullRect) intersects(minX, minY, maxX, maxY float64) bool {
	return minX <= r.MaxX && maxX >= r.MinX && minY <= r.MaxY && maxY >= r.MinY
}

// DrawNotes implements §4.3: for every line, for every note, apply the
// cull rules (line invisible, not yet appeared, already resolved past its
// fade window, outside the cull rect), compute its scrolled screen
// position, and queue one or more textured quads into the frame's batch.
//
// Grounded on the teacher's NoteRect.Draw/NoteMeter.Draw/NoteZoom.Draw,
// which each independently recompute a note's y position from
// g.noteHeight/scroll fields and early-return when off the visible strip;
// this generalizes those per-kind guards into one shared cull pass plus a
// per-kind quad emission step.
func DrawNotes(c *chart.Chart, res *resource.Snapshot, cull CullRect) {
	bw := c.BPM.Borrow()
	defer bw.Release()

	for _, line := range c.Lines {
		world := line.Cache.World
		if world.Alpha <= 0 {
			continue
		}
		lineHeight := bw.HeightAt(res.Time)

		for _, n := range line.Notes {
			drawNote(n, world, lineHeight, res, c.Settings, cull, bw)
		}
	}
}

func drawNote(n *chart.Note, world chart.ObjectState, lineHeight float64, res *resource.Snapshot, settings chart.Settings, cull CullRect, bw *chart.Borrow) {
	cfg := res.Config
	if !math.IsInf(cfg.AppearBefore, 1) {
		beat := bw.SecondsToBeat(n.Time)
		appearAt := bw.BeatToSeconds(beat - cfg.AppearBefore)
		if res.Time < appearAt {
			return // appear_before beats not yet elapsed
		}
	}
	if !math.IsInf(cfg.InvisibleTime, 1) && n.Time-cfg.InvisibleTime < res.Time {
		return // invisible_time window reached
	}

	resolved := n.Judge.Kind == chart.Judged
	isHold := n.Kind == chart.KindHold

	var age float64
	if resolved {
		age = res.Time - n.EndTime()
		if age > fadeOutDuration {
			return // fade-out window elapsed
		}
	}

	alpha := world.Alpha
	if resolved && age > 0 {
		alpha *= 1 - age/fadeOutDuration
	}
	if alpha <= 0 {
		return
	}

	if isHold {
		drawHold(n, world, lineHeight, alpha, res, settings, cull)
		return
	}

	offset := (n.Height - lineHeight) * n.Speed
	x, y := localToWorld(world, n.PositionX, offset)
	halfW := n.Width * noteScale

	minX, maxX := x-halfW, x+halfW
	minY, maxY := y-halfW, y+halfW
	if !cull.intersects(minX, minY, maxX, maxY) {
		return
	}

	tex := textureFor(n.Kind, res.Pack)
	res.Batch.Add(resource.Quad{
		Texture:  tex,
		Order:    n.Kind.Order(),
		X:        x,
		Y:        y,
		Width:    halfW * 2,
		Height:   halfW * 2,
		Rotation: world.Rotation,
		Alpha:    alpha,
	})
}

func drawHold(n *chart.Note, world chart.ObjectState, lineHeight, alpha float64, res *resource.Snapshot, settings chart.Settings, cull CullRect) {
	if n.Hold.EndSpeed == 0 {
		return // legacy charts request this hold never render
	}

	headOffset := (n.Height - lineHeight) * n.Speed
	tailOffset := (n.Hold.EndHeight - lineHeight) * n.Speed

	bodyMinOffset, bodyMaxOffset := headOffset, tailOffset
	if bodyMinOffset > bodyMaxOffset {
		bodyMinOffset, bodyMaxOffset = bodyMaxOffset, bodyMinOffset
	}

	if settings.HoldPartialCover && n.Judge.Kind == chart.HoldActive {
		// clip the covered portion of the body the player has already
		// passed through, per hold_partial_cover (§4.3).
		coveredOffset := (0 - lineHeight) * n.Speed
		if n.Speed >= 0 {
			bodyMinOffset = maxF(bodyMinOffset, coveredOffset)
		} else {
			bodyMaxOffset = minF(bodyMaxOffset, coveredOffset)
		}
		if bodyMinOffset > bodyMaxOffset {
			return
		}
	}

	halfW := n.Width * noteScale

	bodyMinX, bodyMinY := localToWorld(world, n.PositionX-halfW, bodyMinOffset)
	bodyMaxX, bodyMaxY := localToWorld(world, n.PositionX+halfW, bodyMaxOffset)
	bminX, bmaxX := minF(bodyMinX, bodyMaxX), maxF(bodyMinX, bodyMaxX)
	bminY, bmaxY := minF(bodyMinY, bodyMaxY), maxF(bodyMinY, bodyMaxY)

	if cull.intersects(bminX, bminY, bmaxX, bmaxY) {
		res.Batch.Add(resource.Quad{
			Texture:  res.Pack.HoldBodyTexture,
			Order:    n.Kind.Order(),
			X:        (bodyMinX + bodyMaxX) / 2,
			Y:        (bodyMinY + bodyMaxY) / 2,
			Width:    halfW * 2,
			Height:   absF(bodyMaxOffset - bodyMinOffset),
			Rotation: world.Rotation,
			Alpha:    alpha,
		})
	}

	drawHeadAndTail(n, world, headOffset, tailOffset, halfW, alpha, res, cull)
}

func drawHeadAndTail(n *chart.Note, world chart.ObjectState, headOffset, tailOffset, halfW, alpha float64, res *resource.Snapshot, cull CullRect) {
	showHead := n.Judge.Kind != chart.Judged || res.Pack.KeepHoldHead
	if showHead {
		hx, hy := localToWorld(world, n.PositionX, headOffset)
		minX, maxX := hx-halfW, hx+halfW
		minY, maxY := hy-halfW, hy+halfW
		if cull.intersects(minX, minY, maxX, maxY) {
			res.Batch.Add(resource.Quad{
				Texture:  res.Pack.HoldHeadTexture,
				Order:    n.Kind.Order(),
				X:        hx,
				Y:        hy,
				Width:    halfW * 2,
				Height:   halfW * 2,
				Rotation: world.Rotation,
				Alpha:    alpha,
			})
		}
	}

	tx, ty := localToWorld(world, n.PositionX, tailOffset)
	minX, maxX := tx-halfW, tx+halfW
	minY, maxY := ty-halfW, ty+halfW
	if cull.intersects(minX, minY, maxX, maxY) {
		res.Batch.Add(resource.Quad{
			Texture:  res.Pack.HoldTailTexture,
			Order:    n.Kind.Order(),
			X:        tx,
			Y:        ty,
			Width:    halfW * 2,
			Height:   halfW * 2,
			Rotation: world.Rotation,
			Alpha:    alpha,
		})
	}
}

func textureFor(k chart.Kind, pack *resource.Pack) resource.NoteTexture {
	switch k {
	case chart.KindDrag:
		return pack.DragTexture
	case chart.KindFlick:
		return pack.FlickTexture
	default:
		return pack.ClickTexture
	}
}

// localToWorld maps a note's (along-line, perpendicular) local offset into
// world space via the line's rotation, matching composeTransform's
// rotate-then-translate convention.
func localToWorld(world chart.ObjectState, localX, localY float64) (float64, float64) {
	cos, sin := math.Cos(world.Rotation), math.Sin(world.Rotation)
	x := world.X + localX*cos - localY*sin
	y := world.Y + localX*sin + localY*cos
	return x, y
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absF(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}
