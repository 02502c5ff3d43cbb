package judge

import "math"

// Result is the scene-exit result payload of §6.
type Result struct {
	Score     int
	Accuracy  float64
	MaxCombo  int
	Counts    [4]int // perfect, good, bad, miss
	Early     int
	Late      int
	NumNotes  int
}

// Score computes the §4.4/§8 scoring identities:
//
//	raw      = 0.9*(perfects + 0.65*goods)/N + 0.1*combo_ratio
//	score    = round(1_000_000 * raw)
//	accuracy = (perfects + 0.65*goods) / N
//
// combo_ratio = max_combo / N. When perfects == N (which also means
// max_combo == N, since Bad/Miss always reset combo), raw is exactly 1.0
// and score is exactly 1,000,000; a full combo that includes Goods scores
// less, because accuracy is then below 1. No separate full-perfect bonus
// is added: the 0.1*combo_ratio term is the only combo contribution, and
// the score is clamped to [0, 1,000,000]. When N == 0, score and accuracy
// are both 0 by definition (§8 scenario S1).
func (j *Judge) Score() Result {
	n := j.NumNotes
	res := Result{
		MaxCombo: j.MaxCombo,
		Counts:   j.Counts,
		Early:    j.Early,
		Late:     j.Late,
		NumNotes: n,
	}
	if n == 0 {
		return res
	}

	perfects := float64(j.Counts[QualityPerfect])
	goods := float64(j.Counts[QualityGood])
	nf := float64(n)

	res.Accuracy = (perfects + 0.65*goods) / nf
	comboRatio := float64(j.MaxCombo) / nf
	raw := 0.9*res.Accuracy + 0.1*comboRatio

	score := int(math.Round(1_000_000 * raw))
	if score < 0 {
		score = 0
	}
	if score > 1_000_000 {
		score = 1_000_000
	}
	res.Score = score
	return res
}
