package prediction

// ModelScore is one model's contribution to an ensemble result.
type ModelScore struct {
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

// EnsembleResult is the combined risk score plus the per-model breakdown and
// the agreement measure feeding the confidence calculation.
type EnsembleResult struct {
	Score     float64      `json:"score"`
	Breakdown []ModelScore `json:"breakdown"`
	Agreement float64      `json:"agreement"`
}

// Combine runs every model over the features and averages the scores with
// equal weight. Agreement is 1 minus the score variance normalized by 1000,
// floored at 0, so tightly clustered models yield agreement near 1.
func Combine(models []Model, fv FeatureVector) EnsembleResult {
	if len(models) == 0 {
		return EnsembleResult{}
	}

	breakdown := make([]ModelScore, len(models))
	sum := 0.0
	for i, m := range models {
		s := clamp(m.Score(fv), 0, 100)
		breakdown[i] = ModelScore{Model: m.Name(), Score: s}
		sum += s
	}
	mean := sum / float64(len(models))

	variance := 0.0
	for _, b := range breakdown {
		d := b.Score - mean
		variance += d * d
	}
	variance /= float64(len(breakdown))

	agreement := clamp(1-variance/1000, 0, 1)

	return EnsembleResult{
		Score:     mean,
		Breakdown: breakdown,
		Agreement: agreement,
	}
}
