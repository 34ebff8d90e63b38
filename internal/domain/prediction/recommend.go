package prediction

import "sort"

// recommendRule maps a prediction state to one intervention. Rules are
// evaluated in declaration order; sorting by priority afterwards is stable,
// so declaration order breaks ties.
type recommendRule struct {
	fires          func(score float64, factors []RiskFactor) bool
	recommendation Recommendation
}

var recommendRules = []recommendRule{
	{
		fires: func(score float64, _ []RiskFactor) bool { return score >= CriticalThreshold },
		recommendation: Recommendation{
			Type:           RecommendationImmediate,
			Priority:       PriorityHigh,
			Action:         "Emergency intervention",
			Description:    "Schedule a one-on-one meeting with the learner within 24 hours and involve their advisor",
			ExpectedImpact: 40,
		},
	},
	{
		fires: func(_ float64, factors []RiskFactor) bool {
			return hasFactor(factors, func(f RiskFactor) bool {
				return f.Category == CategoryEngagement || f.Name == "Social Isolation"
			})
		},
		recommendation: Recommendation{
			Type:           RecommendationShortTerm,
			Priority:       PriorityHigh,
			Action:         "Boost engagement",
			Description:    "Enroll the learner in interactive group activities and pair them with an active study group",
			ExpectedImpact: 30,
		},
	},
	{
		fires: func(_ float64, factors []RiskFactor) bool {
			return hasFactor(factors, func(f RiskFactor) bool {
				return f.Category == CategoryPerformance || f.Name == "High Deadline Miss Rate"
			})
		},
		recommendation: Recommendation{
			Type:           RecommendationShortTerm,
			Priority:       PriorityHigh,
			Action:         "Academic support",
			Description:    "Arrange tutoring on recent material and review upcoming deadlines together",
			ExpectedImpact: 35,
		},
	},
	{
		fires: func(_ float64, factors []RiskFactor) bool {
			return hasFactor(factors, func(f RiskFactor) bool {
				return f.Category == CategoryAttendance || f.Name == "Frequent Inactivity"
			})
		},
		recommendation: Recommendation{
			Type:           RecommendationImmediate,
			Priority:       PriorityMedium,
			Action:         "Monitor attendance",
			Description:    "Enable attendance check-ins and follow up after each missed day",
			ExpectedImpact: 25,
		},
	},
}

// holisticSupport closes every recommendation list regardless of risk.
var holisticSupport = Recommendation{
	Type:           RecommendationLongTerm,
	Priority:       PriorityMedium,
	Action:         "Holistic support",
	Description:    "Review overall workload, wellbeing, and learning goals at the next regular check-in",
	ExpectedImpact: 15,
}

func hasFactor(factors []RiskFactor, match func(RiskFactor) bool) bool {
	for _, f := range factors {
		if match(f) {
			return true
		}
	}
	return false
}

// GenerateRecommendations maps the risk score and triggered factors to an
// ordered intervention plan. A holistic long-term recommendation is always
// appended, then the list is sorted by priority; the sort is stable so rule
// order is preserved within a priority tier.
func GenerateRecommendations(score float64, factors []RiskFactor) []Recommendation {
	recs := make([]Recommendation, 0, len(recommendRules)+1)
	for _, r := range recommendRules {
		if r.fires(score, factors) {
			recs = append(recs, r.recommendation)
		}
	}
	recs = append(recs, holisticSupport)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
