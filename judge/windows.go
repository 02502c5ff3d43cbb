package judge

// Judgment windows, seconds around scheduled time (§4.4).
const (
	PerfectWindow = 0.080
	GoodWindow    = 0.160
	BadWindow     = 0.180 // Click notes and Hold heads; Drag/Flick resolve only as Perfect or Miss
	MissDeadline  = 0.180 // auto-miss after time+MissDeadline with no input

	// flickDotThreshold is the minimum alignment between a touch's movement
	// direction and the note's flick axis required to register a Flick
	// (§4.4: dot product against the line-normal axis, threshold 0.9).
	flickDotThreshold = 0.9

	// holdLiftGrace is how far before EndTime a lifted finger still
	// finalizes at EndTime rather than missing immediately (§4.4).
	holdLiftGrace = 0.2

	// holdPerfectCoverage / holdGoodCoverage are the Hold finalization
	// coverage thresholds (§4.4), also given directly in
	// original_source/prpr/src/core/note.rs.
	holdPerfectCoverage = 0.90
	holdGoodCoverage    = 0.70

	// defaultHorizontalTolerance is added to a note's authored Width to
	// form its horizontal hit tolerance; horizontalTolerance falls back to
	// 0.15 when that sum is not positive.
	defaultHorizontalTolerance = 0.0
)

// Quality names a completed judgment's grade.
type Quality int

const (
	QualityPerfect Quality = iota
	QualityGood
	QualityBad
	QualityMiss
)

func (q Quality) String() string {
	switch q {
	case QualityPerfect:
		return "perfect"
	case QualityGood:
		return "good"
	case QualityBad:
		return "bad"
	default:
		return "miss"
	}
}
