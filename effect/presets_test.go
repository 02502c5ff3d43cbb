package effect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupResolvesCanonicalName(t *testing.T) {
	p, ok := Lookup("vignette")
	require.True(t, ok)
	require.Equal(t, "vignette", p.Name)
}

func TestLookupResolvesRPEAlias(t *testing.T) {
	p, ok := Lookup("radialblur")
	require.True(t, ok)
	require.Equal(t, "shockwave", p.Name)
}

func TestLookupUnknownNameFails(t *testing.T) {
	_, ok := Lookup("not_a_real_preset")
	require.False(t, ok)
}
