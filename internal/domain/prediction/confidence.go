package prediction

// Confidence calculation constants.
const (
	qualityPenaltyPerZero = 0.05
	qualityFloor          = 0.3

	qualityWeight   = 0.6
	agreementWeight = 0.4

	confidenceCap = 0.95
)

// DataQuality estimates how complete the feature vector is: 1 minus a fixed
// penalty per zero-valued feature, floored so sparse data never reads as
// total ignorance.
func DataQuality(fv FeatureVector) float64 {
	q := 1 - qualityPenaltyPerZero*float64(fv.ZeroFeatureCount())
	if q < qualityFloor {
		return qualityFloor
	}
	return q
}

// ComputeConfidence blends data quality with model agreement, caps the blend,
// and expresses the result on the 0-100 scale predictions use throughout.
func ComputeConfidence(fv FeatureVector, agreement float64) float64 {
	c := qualityWeight*DataQuality(fv) + agreementWeight*clamp(agreement, 0, 1)
	if c > confidenceCap {
		c = confidenceCap
	}
	return c * 100
}
