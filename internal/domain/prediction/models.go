package prediction

import "math"

// ═══════════════════════════════════════════════════════════════════════════
// MODEL PORT
// ═══════════════════════════════════════════════════════════════════════════

// Model scores a feature vector into a dropout risk in [0, 100]. Higher means
// more likely to drop out. Implementations are pure: no I/O, no clock, no
// randomness.
type Model interface {
	// Name identifies the model in scoring breakdowns and logs.
	Name() string

	// Score maps the features to a risk score in [0, 100].
	Score(fv FeatureVector) float64
}

// Models returns the full ensemble roster in a fixed order.
func Models() []Model {
	return []Model{
		LinearModel{},
		RuleTreeModel{},
		NetworkModel{},
		ResidualModel{},
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// ═══════════════════════════════════════════════════════════════════════════
// LINEAR MODEL
// ═══════════════════════════════════════════════════════════════════════════

// LinearModel is a weighted linear combination squashed through a logistic
// curve so the output stays in range without hard clipping.
type LinearModel struct{}

// linearWeights follow the feature declaration order. Negative weights are
// protective (more of the feature lowers risk), positive ones raise it.
var linearWeights = [featureCount]float64{
	-0.45,  // recentEngagement
	-0.9,   // engagementTrend
	-0.35,  // averageScore
	-0.8,   // scoreTrend
	-25.0,  // attendanceRate
	-0.15,  // timeSpentTrend
	-12.0,  // socialInteraction
	-8.0,   // helpSeekingBehavior
	-10.0,  // sessionConsistency
	-1.5,   // difficultyProgression
	45.0,   // deadlineMissRate
	3.2,    // inactivityPeriods
}

const (
	linearBias  = 50.0
	linearScale = 15.0
)

func (LinearModel) Name() string { return "linear" }

func (LinearModel) Score(fv FeatureVector) float64 {
	raw := linearBias
	for i, v := range fv.values() {
		raw += linearWeights[i] * v
	}
	return 100 * sigmoid((raw-linearBias)/linearScale)
}

// ═══════════════════════════════════════════════════════════════════════════
// RULE TREE MODEL
// ═══════════════════════════════════════════════════════════════════════════

// RuleTreeModel is a hand-built decision tree: a base score plus additive
// penalties for crossing known-bad thresholds, with nested penalties when a
// bad signal is compounded by a worsening trend.
type RuleTreeModel struct{}

func (RuleTreeModel) Name() string { return "rule_tree" }

func (RuleTreeModel) Score(fv FeatureVector) float64 {
	score := 30.0

	if fv.RecentEngagement < 40 {
		score += 20
		if fv.EngagementTrend < -10 {
			score += 15
		}
	}
	if fv.AverageScore < 60 {
		score += 15
		if fv.ScoreTrend < -5 {
			score += 10
		}
	}
	if fv.AttendanceRate < 0.7 {
		score += 12
		if fv.InactivityPeriods > 5 {
			score += 8
		}
	}
	if fv.DeadlineMissRate > 0.3 {
		score += 10
	}
	if fv.SocialInteraction < 0.2 {
		score += 5
	}

	return clamp(score, 0, 100)
}

// ═══════════════════════════════════════════════════════════════════════════
// NETWORK MODEL
// ═══════════════════════════════════════════════════════════════════════════

// NetworkModel is a fixed-weight single-hidden-layer network. The four hidden
// neurons each specialize in a risk theme: disengagement, failing performance,
// absenteeism, and isolation. Weights were chosen by hand, not trained.
type NetworkModel struct{}

// networkScales normalize each feature into roughly [-1, 1] before the hidden
// layer, following the feature declaration order.
var networkScales = [featureCount]float64{
	100, // recentEngagement
	50,  // engagementTrend
	100, // averageScore
	25,  // scoreTrend
	1,   // attendanceRate
	100, // timeSpentTrend
	1,   // socialInteraction
	1,   // helpSeekingBehavior
	1,   // sessionConsistency
	5,   // difficultyProgression
	1,   // deadlineMissRate
	10,  // inactivityPeriods
}

// Hidden-layer weights indexed by scaled feature, one row per neuron, with a
// bias as the last element.
var networkHidden = [4][featureCount + 1]float64{
	// disengagement: engagement level and trend, session consistency, inactivity
	{-3, -2, 0, 0, 0, 0, 0, 0, -1, 0, 0, 2, 1},
	// failing performance: score level and trend, deadline misses
	{0, 0, -3, -2, 0, 0, 0, 0, 0, 0, 1, 0, 1},
	// absenteeism: attendance, inactivity, deadline misses
	{0, 0, 0, 0, -3, 0, 0, 0, 0, 0, 1, 2, 0.5},
	// isolation: social interaction, help seeking, time trend
	{0, 0, 0, 0, 0, -1, -2, -2, 0, 0, 0, 0, 0.5},
}

// Output-layer weights and bias.
var (
	networkOutput     = [4]float64{2.2, 2.0, 1.8, 1.2}
	networkOutputBias = -3.4
)

func (NetworkModel) Name() string { return "network" }

func (NetworkModel) Score(fv FeatureVector) float64 {
	var scaled [featureCount]float64
	for i, v := range fv.values() {
		scaled[i] = v / networkScales[i]
	}

	out := networkOutputBias
	for n := 0; n < len(networkHidden); n++ {
		acc := networkHidden[n][featureCount] // bias
		for i := 0; i < featureCount; i++ {
			acc += networkHidden[n][i] * scaled[i]
		}
		out += networkOutput[n] * sigmoid(acc)
	}
	return 100 * sigmoid(out)
}

// ═══════════════════════════════════════════════════════════════════════════
// RESIDUAL MODEL
// ═══════════════════════════════════════════════════════════════════════════

// ResidualModel starts from a population baseline and adds staged corrections
// for how far the learner falls short of healthy engagement, performance, and
// behavior reference points.
type ResidualModel struct{}

const (
	residualBase = 40.0

	engagementReference  = 70.0
	performanceReference = 75.0
	behaviorReference    = 70.0

	engagementCorrection  = 0.3
	performanceCorrection = 0.25
	behaviorCorrection    = 0.2
)

func (ResidualModel) Name() string { return "residual" }

func (ResidualModel) Score(fv FeatureVector) float64 {
	behavior := (fv.AttendanceRate*100 + fv.SessionConsistency*100 + fv.SocialInteraction*100) / 3

	score := residualBase
	score += engagementCorrection * (engagementReference - fv.RecentEngagement)
	score += performanceCorrection * (performanceReference - fv.AverageScore)
	score += behaviorCorrection * (behaviorReference - behavior)

	return clamp(score, 0, 100)
}
