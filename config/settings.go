// Package config holds the persisted settings record of spec §6: every
// recognized key, its default, and the effect the key stands for. Within
// this module only offset, autoplay, chart_ratio, appear_before,
// invisible_time and (through UploadEligible) speed are read; the other
// keys are loaded and saved but change nothing in the runtime packages.
package config

import (
	"math"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the persisted, per-user configuration snapshot taken once at
// scene entry (see SPEC_FULL.md §5 — only a handful of fields, marked
// below, are mutated live on the render thread after that).
type Settings struct {
	Offset   float64 `yaml:"offset"`    // seconds, added to all note times at judge/render
	Speed    float64 `yaml:"speed"`     // playback rate and time scale; <1 disables upload; live
	NoteScale float64 `yaml:"note_scale"` // multiplies note width

	VolumeMusic float64 `yaml:"volume_music"` // live
	VolumeSFX   float64 `yaml:"volume_sfx"`   // live
	VolumeBGM   float64 `yaml:"volume_bgm"`   // live

	AdjustTime bool `yaml:"adjust_time"` // enables audio/video drift correction

	Aggressive bool `yaml:"aggressive"` // aggressive culling for long holds
	ShowAcc    bool `yaml:"show_acc"`   // renders accuracy percentage HUD

	DoubleHint          bool `yaml:"double_hint"`            // multi-hint note skin when applicable
	DoubleClickToPause  bool `yaml:"double_click_to_pause"`  // requires two taps to pause

	ChartRatio  float64 `yaml:"chart_ratio"`  // letterbox scale for chart within window
	SampleCount int     `yaml:"sample_count"` // MSAA factor; 1 disables
	FXAA        bool    `yaml:"fxaa"`         // injects an FXAA post-effect

	// AppearBefore is how many beats ahead of a note's scheduled beat it
	// starts rendering; +Inf disables the cull (notes render from the
	// start of the chart). Beat-based per the original's
	// bpm_list.time_beats(beat - appear_before).
	AppearBefore float64 `yaml:"appear_before"`
	// InvisibleTime is how many seconds before a note's scheduled time it
	// stops rendering (a difficulty modifier); +Inf disables the cull.
	InvisibleTime float64 `yaml:"invisible_time"`

	ChallengeRank int `yaml:"challenge_rank"` // displayed rank badge value

	Autoplay bool `yaml:"autoplay"` // mod: bypass judgment, all perfect
	FlipX    bool `yaml:"flip_x"`   // mod: horizontal flip of chart
	FadeOut  bool `yaml:"fade_out"` // mod: notes fade as they approach

	DisableAudio bool `yaml:"disable_audio"` // live
}

// Default returns the recognized-field defaults; any field missing from a
// loaded document keeps these values.
func Default() Settings {
	return Settings{
		Offset:      0,
		Speed:       1.0,
		NoteScale:   1.0,
		VolumeMusic: 1.0,
		VolumeSFX:   1.0,
		VolumeBGM:   1.0,
		AdjustTime:  true,
		Aggressive:  false,
		ShowAcc:     false,
		DoubleHint:  true,
		ChartRatio:  0.75,
		SampleCount: 1,
		FXAA:        false,

		AppearBefore:  math.Inf(1),
		InvisibleTime: math.Inf(1),
	}
}

// Load decodes YAML bytes over the defaults, so any field absent from doc
// keeps its default rather than zeroing out.
func Load(doc []byte) (Settings, error) {
	s := Default()
	if len(doc) == 0 {
		return s, nil
	}
	if err := yaml.Unmarshal(doc, &s); err != nil {
		return Settings{}, errors.Wrap(err, "decode settings")
	}
	return s, nil
}

// Marshal encodes s back to YAML for persistence.
func (s Settings) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode settings")
	}
	return b, nil
}

// UploadEligible reports whether the ending scene may invoke the upload
// function: non-autoplay, speed >= 1.0 - epsilon (§6).
func (s Settings) UploadEligible(offline bool) bool {
	const epsilon = 1e-6
	if s.Autoplay || offline {
		return false
	}
	return s.Speed >= 1.0-epsilon
}
