package effect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDeclarationsExtractsTypeAndDefault(t *testing.T) {
	src := []byte(`
// uniform float Strength; // %0.5%
// uniform vec4 Color; // %0,0,0,1%
`)
	decl := ParseDeclarations(src)

	require.Contains(t, decl, "Strength")
	require.Equal(t, "float", decl["Strength"].Type)
	require.InDelta(t, 0.5, decl["Strength"].Default[0], 1e-9)

	require.Contains(t, decl, "Color")
	require.Equal(t, "vec4", decl["Color"].Type)
	require.Equal(t, [4]float64{0, 0, 0, 1}, decl["Color"].Default)
}

func TestParseDeclarationsIgnoresUnrelatedComments(t *testing.T) {
	src := []byte("// just a regular comment\nvar x float\n")
	decl := ParseDeclarations(src)
	require.Empty(t, decl)
}

func TestBuiltinPresetShadersDeclareAtLeastOneUniform(t *testing.T) {
	for _, p := range presets {
		decl := ParseDeclarations(p.Source)
		require.NotEmptyf(t, decl, "preset %q declared no uniforms", p.Name)
	}
}
