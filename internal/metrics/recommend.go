package metrics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"pulse-analytics/internal/stats"
)

const (
	maxRecommendations = 4

	multiplierThreshold = 1.5
	recAdultShare       = 0.65
	recChildShare       = 0.25
	recYouthShare       = 0.30
	capacityFactor      = 1.5
	highSeverityFactor  = 2.0
)

const (
	impactHigh   = "~25–35% load normalization"
	impactMedium = "~15–20% efficiency improvement"
)

const defaultAction = "Monitor situation closely"

// Recommendation explains why a high-intensity sub-region needs attention and
// what to do about it.
type Recommendation struct {
	Region         string   `json:"region"`
	SubRegion      string   `json:"sub_region"`
	Total          int      `json:"total"`
	Multiplier     float64  `json:"multiplier"`
	Severity       Severity `json:"severity"`
	Reasons        []string `json:"reasons"`
	Actions        []string `json:"actions"`
	ExpectedImpact string   `json:"expected_impact"`
}

// Recommend produces up to four recommendations for the high-intensity
// sub-regions of a period, high severity first.
func Recommend(regions []RegionSummary) []Recommendation {
	all := subRegions(regions)
	if len(all) == 0 {
		return nil
	}
	var sum int
	for _, s := range all {
		sum += s.Total
	}
	avgTotal := float64(sum) / float64(len(all))

	var out []Recommendation
	for _, reg := range regions {
		regionMean := meanTotal(reg.SubRegions)
		for _, s := range reg.SubRegions {
			if s.Intensity != stats.IntensityHigh {
				continue
			}
			if rec, ok := recommendFor(s, regionMean, avgTotal); ok {
				out = append(out, rec)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Recommendation) int {
		return cmp.Compare(severityRank(b.Severity), severityRank(a.Severity))
	})
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// recommendFor evaluates the heuristics for one sub-region. regionMean is the
// mean sub-region total of its region and avgTotal the mean across the period.
// It reports false when no heuristic fired.
func recommendFor(s SubRegionSummary, regionMean, avgTotal float64) (Recommendation, bool) {
	var reasons, actions []string

	var multiplier float64
	if regionMean > 0 {
		multiplier = math.Round(float64(s.Total)/regionMean*10) / 10
	}
	if multiplier > multiplierThreshold {
		reasons = append(reasons, fmt.Sprintf("Update volume is %.1fx the %s district average", multiplier, s.Region))
	}

	sh := bracketShares(s)
	if sh.adult > recAdultShare {
		reasons = append(reasons, fmt.Sprintf("Adult updates make up %.0f%% of activity, skewed toward address and mobile changes", sh.adult*100))
		actions = append(actions,
			"Add dedicated adult update counters",
			"Extend centre hours into evenings and weekends")
	}
	if sh.child > recChildShare {
		reasons = append(reasons, fmt.Sprintf("Child (0-5) updates at %.0f%% point to an enrolment drive or birth registration backlog", sh.child*100))
		actions = append(actions,
			"Run enrolment camps at anganwadi centres and hospitals",
			"Coordinate with birth registration offices")
	}
	if sh.youth > recYouthShare {
		reasons = append(reasons, fmt.Sprintf("Youth (5-17) updates at %.0f%% indicate a mandatory biometric update surge", sh.youth*100))
		actions = append(actions, "Schedule school-based biometric update camps")
	}
	if float64(s.Total) > avgTotal*capacityFactor {
		actions = append(actions,
			"Open temporary update centres",
			"Reassign operators from low-load districts")
	}

	if len(reasons) == 0 {
		return Recommendation{}, false
	}
	if len(actions) == 0 {
		actions = []string{defaultAction}
	}

	severity, impact := SeverityMedium, impactMedium
	if float64(s.Total) > avgTotal*highSeverityFactor {
		severity, impact = SeverityHigh, impactHigh
	}
	return Recommendation{
		Region:         s.Region,
		SubRegion:      s.SubRegion,
		Total:          s.Total,
		Multiplier:     multiplier,
		Severity:       severity,
		Reasons:        reasons,
		Actions:        actions,
		ExpectedImpact: impact,
	}, true
}

func meanTotal(subs []SubRegionSummary) float64 {
	if len(subs) == 0 {
		return 0
	}
	var sum int
	for _, s := range subs {
		sum += s.Total
	}
	return float64(sum) / float64(len(subs))
}

func severityRank(s Severity) int {
	if s == SeverityHigh {
		return 1
	}
	return 0
}

var placeholderPool = [...]string{
	"Analyzing update patterns across districts...",
	"Comparing age-bracket mix against state averages...",
	"Looking for districts with unusual child enrolment...",
	"Checking centre load against period totals...",
	"Ranking districts by update volume...",
}

// PlaceholderInsight returns a fixed loading message for index i. Any integer
// is accepted; indices wrap around the pool.
func PlaceholderInsight(i int) string {
	n := len(placeholderPool)
	return placeholderPool[((i%n)+n)%n]
}
