package effect

import _ "embed"

//go:embed shaders/chromatic.kage
var chromaticKage []byte

//go:embed shaders/fisheye.kage
var fisheyeKage []byte

//go:embed shaders/noise.kage
var noiseKage []byte

//go:embed shaders/shockwave.kage
var shockwaveKage []byte

//go:embed shaders/vignette.kage
var vignetteKage []byte

// Preset is one named, buildable post-processing effect (§4.5).
type Preset struct {
	Name    string
	Source  []byte
	Aliases []string // additional chart-authored names this preset answers to
}

// presets is the built-in library. Aliases cover the RPE effect names
// charts commonly author against so a chart authored for one tool's
// vocabulary still resolves against this runtime's preset set.
var presets = []Preset{
	{Name: "chromatic", Source: chromaticKage, Aliases: []string{"chromatic_aberration", "ca"}},
	{Name: "fisheye", Source: fisheyeKage, Aliases: []string{"lens", "distort"}},
	{Name: "noise", Source: noiseKage, Aliases: []string{"grain", "film_noise"}},
	{Name: "shockwave", Source: shockwaveKage, Aliases: []string{"ripple", "radialblur"}},
	{Name: "vignette", Source: vignetteKage, Aliases: []string{"darken_edge"}},
}

// presetIndex resolves any registered name or alias to its Preset.
var presetIndex = buildPresetIndex()

func buildPresetIndex() map[string]Preset {
	idx := make(map[string]Preset, len(presets)*2)
	for _, p := range presets {
		idx[p.Name] = p
		for _, a := range p.Aliases {
			idx[a] = p
		}
	}
	return idx
}

// Lookup resolves a chart-authored preset name (canonical or alias) to its
// shader source, reporting ok=false for an unrecognized name so callers
// can skip an effect instance rather than fail the whole chart (§4.5:
// unknown presets are a skip, not a load error).
func Lookup(name string) (Preset, bool) {
	p, ok := presetIndex[name]
	return p, ok
}
