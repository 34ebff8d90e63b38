package prediction

import (
	"fmt"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════
// RISK FACTOR RULES
// ═══════════════════════════════════════════════════════════════════════════

// factorRule declares one interpretable risk signal: when it fires, how much
// it weighs in the explanation, and how its severity escalates as the feature
// worsens past a second threshold.
type factorRule struct {
	name     string
	category FactorCategory
	weight   float64
	fires    func(fv FeatureVector) bool
	severity func(fv FeatureVector) Severity
	describe func(fv FeatureVector) string
}

var riskRules = []factorRule{
	{
		name:     "Low Engagement",
		category: CategoryEngagement,
		weight:   0.25,
		fires:    func(fv FeatureVector) bool { return fv.RecentEngagement < 50 },
		severity: escalate(func(fv FeatureVector) bool { return fv.RecentEngagement < 30 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Recent engagement averaged %.1f out of 100", fv.RecentEngagement)
		},
	},
	{
		name:     "Declining Engagement",
		category: CategoryEngagement,
		weight:   0.20,
		fires:    func(fv FeatureVector) bool { return fv.EngagementTrend < -10 },
		severity: escalate(func(fv FeatureVector) bool { return fv.EngagementTrend < -25 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Engagement dropped %.1f points over the analysis window", -fv.EngagementTrend)
		},
	},
	{
		name:     "Poor Performance",
		category: CategoryPerformance,
		weight:   0.20,
		fires:    func(fv FeatureVector) bool { return fv.AverageScore < 60 },
		severity: escalate(func(fv FeatureVector) bool { return fv.AverageScore < 40 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Average assessment score is %.1f%%", fv.AverageScore)
		},
	},
	{
		name:     "Low Attendance",
		category: CategoryAttendance,
		weight:   0.18,
		fires:    func(fv FeatureVector) bool { return fv.AttendanceRate < 0.7 },
		severity: escalate(func(fv FeatureVector) bool { return fv.AttendanceRate < 0.4 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Present on %.0f%% of expected days", fv.AttendanceRate*100)
		},
	},
	{
		name:     "Declining Performance",
		category: CategoryPerformance,
		weight:   0.15,
		fires:    func(fv FeatureVector) bool { return fv.ScoreTrend < -5 },
		severity: escalate(func(fv FeatureVector) bool { return fv.ScoreTrend < -15 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Assessment scores fell %.1f points between window halves", -fv.ScoreTrend)
		},
	},
	{
		name:     "High Deadline Miss Rate",
		category: CategoryBehavior,
		weight:   0.15,
		fires:    func(fv FeatureVector) bool { return fv.DeadlineMissRate > 0.3 },
		severity: escalate(func(fv FeatureVector) bool { return fv.DeadlineMissRate > 0.6 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Missed %.0f%% of deadline-bound work", fv.DeadlineMissRate*100)
		},
	},
	{
		name:     "Frequent Inactivity",
		category: CategoryBehavior,
		weight:   0.12,
		fires:    func(fv FeatureVector) bool { return fv.InactivityPeriods > 5 },
		severity: escalate(func(fv FeatureVector) bool { return fv.InactivityPeriods > 10 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("%.0f gaps of more than three days without activity", fv.InactivityPeriods)
		},
	},
	{
		name:     "Social Isolation",
		category: CategorySocial,
		weight:   0.10,
		fires:    func(fv FeatureVector) bool { return fv.SocialInteraction < 0.2 },
		severity: escalate(func(fv FeatureVector) bool { return fv.SocialInteraction < 0.05 }),
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Only %.0f%% of activity involves peers", fv.SocialInteraction*100)
		},
	},
}

// escalate builds a severity function that returns high when the worse
// condition holds and medium otherwise.
func escalate(worse func(fv FeatureVector) bool) func(fv FeatureVector) Severity {
	return func(fv FeatureVector) Severity {
		if worse(fv) {
			return SeverityHigh
		}
		return SeverityMedium
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// PROTECTIVE FACTOR RULES
// ═══════════════════════════════════════════════════════════════════════════

type protectiveRule struct {
	name     string
	category FactorCategory
	strength float64
	fires    func(fv FeatureVector) bool
	describe func(fv FeatureVector) string
}

var protectiveRules = []protectiveRule{
	{
		name:     "Active Help Seeking",
		category: CategoryBehavior,
		strength: 0.7,
		fires:    func(fv FeatureVector) bool { return fv.HelpSeekingBehavior > 0.5 },
		describe: func(fv FeatureVector) string {
			return "Regularly asks for help when stuck, a strong persistence signal"
		},
	},
	{
		name:     "Consistent Study Habits",
		category: CategoryBehavior,
		strength: 0.8,
		fires:    func(fv FeatureVector) bool { return fv.SessionConsistency > 0.8 },
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Study sessions follow a steady rhythm (consistency %.2f)", fv.SessionConsistency)
		},
	},
	{
		name:     "Strong Social Engagement",
		category: CategorySocial,
		strength: 0.6,
		fires:    func(fv FeatureVector) bool { return fv.SocialInteraction > 0.6 },
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("%.0f%% of activity involves peers", fv.SocialInteraction*100)
		},
	},
	{
		name:     "Improving Performance",
		category: CategoryPerformance,
		strength: 0.7,
		fires:    func(fv FeatureVector) bool { return fv.ScoreTrend > 5 },
		describe: func(fv FeatureVector) string {
			return fmt.Sprintf("Assessment scores rose %.1f points between window halves", fv.ScoreTrend)
		},
	},
}

// ═══════════════════════════════════════════════════════════════════════════
// ANALYSIS
// ═══════════════════════════════════════════════════════════════════════════

// AnalyzeFactors walks the rule tables and returns every risk factor and
// protective factor the features trigger, plus raw indicator snapshots for
// dashboards. Risk factors come back sorted by weight descending; the sort is
// stable so equal weights keep table order.
func AnalyzeFactors(fv FeatureVector) ([]RiskFactor, []ProtectiveFactor, []Indicator) {
	risks := make([]RiskFactor, 0, len(riskRules))
	for _, r := range riskRules {
		if !r.fires(fv) {
			continue
		}
		risks = append(risks, RiskFactor{
			Name:        r.name,
			Category:    r.category,
			Weight:      r.weight,
			Severity:    r.severity(fv),
			Description: r.describe(fv),
		})
	}
	sort.SliceStable(risks, func(i, j int) bool { return risks[i].Weight > risks[j].Weight })

	protective := make([]ProtectiveFactor, 0, len(protectiveRules))
	for _, r := range protectiveRules {
		if !r.fires(fv) {
			continue
		}
		protective = append(protective, ProtectiveFactor{
			Name:        r.name,
			Category:    r.category,
			Strength:    r.strength,
			Description: r.describe(fv),
		})
	}

	indicators := []Indicator{
		{Name: "recent_engagement", Value: fv.RecentEngagement, Unit: "points"},
		{Name: "average_score", Value: fv.AverageScore, Unit: "percent"},
		{Name: "attendance_rate", Value: fv.AttendanceRate, Unit: "ratio"},
		{Name: "deadline_miss_rate", Value: fv.DeadlineMissRate, Unit: "ratio"},
		{Name: "social_interaction", Value: fv.SocialInteraction, Unit: "ratio"},
		{Name: "inactivity_periods", Value: fv.InactivityPeriods, Unit: "count"},
	}

	return risks, protective, indicators
}
