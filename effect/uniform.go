package effect

import (
	"regexp"
	"strconv"
	"strings"
)

// Declared is one uniform a shader exposes, parsed out of its source.
// SPEC_FULL.md §4.5 requires presets to declare defaults alongside type so
// a chart that doesn't override a uniform still gets a sane value.
type Declared struct {
	Type    string // "float", "vec2", "vec4"
	Default [4]float64
}

// declLine matches a declaration comment of the form:
//
//	// uniform TYPE name; // %c0,c1,...%
var declLine = regexp.MustCompile(`//\s*uniform\s+(\S+)\s+(\w+)\s*;\s*//\s*%([0-9.,\- ]*)%`)

// ParseDeclarations scans Kage shader source for declared-uniform comments
// and returns their name, type, and default value.
//
// Grounded on the teacher's convention of hand-initializing every
// `DrawRectShaderOptions.Uniforms` entry next to where the shader is
// embedded (`radialBlurShaderOpts.Uniforms = map[string]any{...}`);
// generalizing that to a parsed declaration lets a preset be added by
// dropping in a new shader file instead of hand-editing a Go literal.
func ParseDeclarations(src []byte) map[string]Declared {
	out := map[string]Declared{}
	for _, m := range declLine.FindAllStringSubmatch(string(src), -1) {
		typ, name, rawDefault := m[1], m[2], m[3]
		d := Declared{Type: typ}
		parts := strings.Split(rawDefault, ",")
		for i, p := range parts {
			if i >= 4 {
				break
			}
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			v, err := strconv.ParseFloat(p, 64)
			if err == nil {
				d.Default[i] = v
			}
		}
		out[name] = d
	}
	return out
}
