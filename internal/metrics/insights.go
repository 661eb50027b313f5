package metrics

import (
	"cmp"
	"fmt"
	"slices"
)

// Severity grades alerts and recommendations.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AlertKind names the rule that raised an alert.
type AlertKind string

const (
	AlertChildSurge AlertKind = "child_surge"
	AlertAdultHeavy AlertKind = "adult_heavy"
	AlertYouthSurge AlertKind = "youth_surge"
)

const (
	alertChildShare = 0.40
	alertAdultShare = 0.75
	alertYouthShare = 0.35
	maxAlerts       = 5
)

// Alert flags a sub-region whose bracket mix is unusual.
type Alert struct {
	Region    string    `json:"region"`
	SubRegion string    `json:"sub_region"`
	Kind      AlertKind `json:"kind"`
	Severity  Severity  `json:"severity"`
	Share     float64   `json:"share"`
	Message   string    `json:"message"`
}

// TopSubRegions returns the limit busiest sub-region rows across all regions.
// Rows with equal totals keep their original order.
func TopSubRegions(regions []RegionSummary, limit int) []SubRegionSummary {
	all := subRegions(regions)
	slices.SortStableFunc(all, func(a, b SubRegionSummary) int {
		return cmp.Compare(b.Total, a.Total)
	})
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// DetectAlerts applies the share rules to every sub-region in traversal order.
// At most one alert is raised per sub-region, and at most five overall.
func DetectAlerts(regions []RegionSummary) []Alert {
	var out []Alert
	for _, s := range subRegions(regions) {
		if len(out) == maxAlerts {
			break
		}
		if a, ok := alertFor(s); ok {
			out = append(out, a)
		}
	}
	return out
}

func alertFor(s SubRegionSummary) (Alert, bool) {
	sh := bracketShares(s)
	a := Alert{Region: s.Region, SubRegion: s.SubRegion}
	switch {
	case sh.child > alertChildShare:
		a.Kind, a.Severity, a.Share = AlertChildSurge, SeverityHigh, sh.child
		a.Message = fmt.Sprintf("%s: %.1f%% of updates are for children aged 0-5", s.SubRegion, sh.child*100)
	case sh.adult > alertAdultShare:
		a.Kind, a.Severity, a.Share = AlertAdultHeavy, SeverityMedium, sh.adult
		a.Message = fmt.Sprintf("%s: adults account for %.1f%% of updates", s.SubRegion, sh.adult*100)
	case sh.youth > alertYouthShare:
		a.Kind, a.Severity, a.Share = AlertYouthSurge, SeverityMedium, sh.youth
		a.Message = fmt.Sprintf("%s: %.1f%% of updates are for ages 5-17", s.SubRegion, sh.youth*100)
	default:
		return Alert{}, false
	}
	return a, true
}
