package scene

import (
	"regexp"
	"strings"
)

// comboFilter strips everything except printable ASCII letters, digits and
// punctuation (space excluded) and the five specific homoglyphs comboValidate's character classes
// reference, mirroring original_source/prpr/src/scene/game.rs's
// validate_value: a free-text field (player display name) is cleaned
// before being checked for "COMBO" impersonation, so the policy can't be
// defeated by interleaving unrelated characters.
var comboFilter = regexp.MustCompile(`[^a-zA-Z0-9!#$%&'()*+,\-./:;<=>?@\\\[\]^_` + "`" + `{|}~ΜΟΒСՕ]`)

// comboValidate matches "COMBO" spelled with Latin letters, the Cyrillic/
// Greek/Armenian homoglyphs the original enumerates (С, Ο, Μ, Β, Օ), or
// the digits that resemble O/B (0, 8).
var comboValidate = regexp.MustCompile(`^[CС][OՕΟ0][MΜ][BΒ8][OՕΟ0]$`)

// IsComboLookalike reports whether value, once stripped of anything that
// isn't plausibly part of a disguised "COMBO" string and trimmed, spells
// "COMBO" using any mix of Latin letters, digits, or the listed
// homoglyphs. SPEC_FULL.md §9 flags this as a policy decision belonging
// outside score math: scene uses it to reject a display name that could
// be rendered to look like the combo counter HUD element.
func IsComboLookalike(value string) bool {
	filtered := strings.TrimSpace(comboFilter.ReplaceAllString(value, ""))
	return comboValidate.MatchString(filtered)
}
