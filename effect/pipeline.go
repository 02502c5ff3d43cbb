// Package effect implements the post-processing pipeline of SPEC_FULL.md
// §4.5: a swap-buffer chain of Kage shaders, built from a preset library
// plus chart-authored effect instances with constant or keyframe-animated
// uniforms.
//
// Grounded on the teacher's radialblur/colormod/radialgradient shader
// chain: each is compiled once via ebiten.NewShader, driven by a
// DrawRectShaderOptions whose Uniforms map and Images[0] are mutated every
// frame, and chained by feeding one pass's output image into the next
// pass's Images[0] (baseImage -> blurImage -> screen). Pipeline
// generalizes that fixed three-shader chain into an arbitrary ordered list
// of chart-declared effect instances.
package effect

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"beatline/chart"
)

// compiled pairs a preset's source with its built shader and declared
// uniform defaults, compiled once and reused by every Instance built from
// that preset.
type compiled struct {
	shader *ebiten.Shader
	decl   map[string]Declared
}

var compiledCache = map[string]*compiled{}

func compile(preset Preset) (*compiled, error) {
	if c, ok := compiledCache[preset.Name]; ok {
		return c, nil
	}
	shader, err := ebiten.NewShader(preset.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "compile effect preset %q", preset.Name)
	}
	c := &compiled{shader: shader, decl: ParseDeclarations(preset.Source)}
	compiledCache[preset.Name] = c
	return c, nil
}

// Instance is one chart-authored effect occurrence, ready to render (§4.5).
type Instance struct {
	spec   chart.EffectSpec
	shader *ebiten.Shader
	decl   map[string]Declared
}

// Build resolves every effect spec into a renderable Instance, skipping
// (not failing on) any preset name the library doesn't recognize — an
// unrecognized preset is treated as chart-authoring drift, not a load
// error, since charts are also expected to work on engines with different
// preset sets.
func Build(specs []chart.EffectSpec) ([]Instance, error) {
	out := make([]Instance, 0, len(specs))
	for _, s := range specs {
		preset, ok := Lookup(s.Preset)
		if !ok {
			continue
		}
		c, err := compile(preset)
		if err != nil {
			return nil, err
		}
		out = append(out, Instance{spec: s, shader: c.shader, decl: c.decl})
	}
	return out, nil
}

// active reports whether the instance is within its [StartTime, EndTime)
// window at t.
func (in Instance) active(t float64) bool {
	return t >= in.spec.StartTime && t < in.spec.EndTime
}

// uniforms resolves every declared uniform to its value at time t: the
// chart-authored override (constant or keyframe-evaluated) if present,
// else the preset's parsed default.
func (in Instance) uniforms(t float64) map[string]any {
	out := make(map[string]any, len(in.decl))
	for name, d := range in.decl {
		val := d.Default
		if u, ok := in.spec.Uniforms[name]; ok {
			val = resolveUniform(u, t)
		}
		out[name] = packUniform(d.Type, val)
	}
	return out
}

func resolveUniform(u chart.EffectUniform, t float64) [4]float64 {
	if !u.IsAnimated {
		return u.Constant
	}
	var v [4]float64
	for i := 0; i < u.Components && i < 4; i++ {
		v[i] = u.Animated[i].Eval(t)
	}
	return v
}

func packUniform(typ string, v [4]float64) any {
	switch typ {
	case "float":
		return float32(v[0])
	case "vec2":
		return []float32{float32(v[0]), float32(v[1])}
	case "vec4":
		return []float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
	default:
		return float32(v[0])
	}
}

// ChartRect is the letterboxed pixel rectangle the chart occupies within
// the full render target. Non-Global effect instances are scoped to this
// rect rather than the whole screen (§4.5: "global renders full-screen,
// others render within the chart's aspect rectangle").
type ChartRect struct {
	X, Y, W, H float64
}

// FitChartRect derives the centered letterbox rectangle for a chart of the
// given aspect ratio (width/height) scaled by chartRatio within a
// screenW x screenH target, the same fit used by Resource.AspectRatio /
// Settings.ChartRatio elsewhere in the pipeline.
func FitChartRect(screenW, screenH, aspectRatio, chartRatio float64) ChartRect {
	w := screenW
	h := w / aspectRatio
	if h > screenH {
		h = screenH
		w = h * aspectRatio
	}
	w *= chartRatio
	h *= chartRatio
	return ChartRect{X: (screenW - w) / 2, Y: (screenH - h) / 2, W: w, H: h}
}

// Pipeline owns the offscreen ping-pong targets and renders the active
// instance chain for a frame (§4.5).
type Pipeline struct {
	instances []Instance
	global    []Instance // Global:true instances, full-screen instead of chart-rect scoped
	a, b      *ebiten.Image
	w, h      int
}

// NewPipeline builds a Pipeline sized for a w x h frame.
func NewPipeline(instances []Instance, w, h int) *Pipeline {
	p := &Pipeline{w: w, h: h}
	for _, in := range instances {
		if in.spec.Global {
			p.global = append(p.global, in)
		} else {
			p.instances = append(p.instances, in)
		}
	}
	return p
}

func (p *Pipeline) ensureBuffers() {
	if p.a == nil {
		p.a = ebiten.NewImage(p.w, p.h)
		p.b = ebiten.NewImage(p.w, p.h)
	}
}

// selectActive filters both windowed and global instances by their own
// time_range (§4.5: the window applies uniformly; Global only changes the
// render rect, not whether the window is honored). Pulled out of Apply so
// the selection logic is testable without a live graphics driver.
func selectActive(instances, global []Instance, t float64) []Instance {
	out := make([]Instance, 0, len(instances)+len(global))
	for _, in := range instances {
		if in.active(t) {
			out = append(out, in)
		}
	}
	for _, in := range global {
		if in.active(t) {
			out = append(out, in)
		}
	}
	return out
}

// Apply runs every active instance (time-windowed ones first in spec
// order, then globals, all gated by their own time_range) over src,
// swapping offscreen buffers between passes, and returns the final image.
// Non-Global instances are drawn scoped to rect; Global ones cover the
// full pipeline buffer. Returns src unchanged if nothing is active this
// frame.
func (p *Pipeline) Apply(src *ebiten.Image, t float64, rect ChartRect) *ebiten.Image {
	active := selectActive(p.instances, p.global, t)
	if len(active) == 0 {
		return src
	}

	p.ensureBuffers()
	cur := src
	bufs := [2]*ebiten.Image{p.a, p.b}
	next := 0

	for _, in := range active {
		out := bufs[next]
		out.Clear()
		opts := &ebiten.DrawRectShaderOptions{}
		opts.Uniforms = in.uniforms(t)
		opts.Images[0] = cur

		w, h := p.w, p.h
		if !in.spec.Global {
			opts.GeoM.Translate(rect.X, rect.Y)
			w, h = int(rect.W), int(rect.H)
		}
		out.DrawRectShader(w, h, in.shader, opts)
		cur = out
		next = 1 - next
	}
	return cur
}
