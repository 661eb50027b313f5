package metrics

import (
	"cmp"
	"slices"

	"pulse-analytics/internal/ingest"
	"pulse-analytics/internal/stats"
)

// Bracket labels an age bracket.
type Bracket string

const (
	BracketChild Bracket = "Child (0-5)"
	BracketYouth Bracket = "Youth (5-17)"
	BracketAdult Bracket = "Adult (18+)"
)

// SubRegionSummary is one input row for the selected period.
type SubRegionSummary struct {
	Region    string          `json:"region"`
	SubRegion string          `json:"sub_region"`
	Child     int             `json:"child"`
	Youth     int             `json:"youth"`
	Adult     int             `json:"adult"`
	Total     int             `json:"total"`
	Dominant  Bracket         `json:"dominant_bracket"`
	Intensity stats.Intensity `json:"intensity"`
}

// RegionSummary rolls up every sub-region row of one region for a period.
type RegionSummary struct {
	Region     string             `json:"region"`
	Child      int                `json:"child"`
	Youth      int                `json:"youth"`
	Adult      int                `json:"adult"`
	Total      int                `json:"total"`
	Dominant   Bracket            `json:"dominant_bracket"`
	Intensity  stats.Intensity    `json:"intensity"`
	SubRegions []SubRegionSummary `json:"sub_regions"`
}

// DominantBracket picks the bracket with the largest count. Ties go to the
// older bracket.
func DominantBracket(child, youth, adult int) Bracket {
	m := max(child, youth, adult)
	switch {
	case adult == m:
		return BracketAdult
	case youth == m:
		return BracketYouth
	default:
		return BracketChild
	}
}

// AggregateByPeriod groups the records of one period by region, classifies
// every region and sub-region against its siblings, and returns regions
// ordered by total descending. Regions with equal totals keep first-seen order.
// An unknown period yields an empty slice.
func AggregateByPeriod(records []ingest.Record, period string) []RegionSummary {
	regions := []RegionSummary{}
	index := map[string]int{}
	for _, r := range records {
		if r.Period != period {
			continue
		}
		i, ok := index[r.Region]
		if !ok {
			i = len(regions)
			index[r.Region] = i
			regions = append(regions, RegionSummary{Region: r.Region})
		}
		reg := &regions[i]
		reg.Child += r.Child
		reg.Youth += r.Youth
		reg.Adult += r.Adult
		reg.Total += r.Total()
		reg.SubRegions = append(reg.SubRegions, SubRegionSummary{
			Region:    r.Region,
			SubRegion: r.SubRegion,
			Child:     r.Child,
			Youth:     r.Youth,
			Adult:     r.Adult,
			Total:     r.Total(),
			Dominant:  DominantBracket(r.Child, r.Youth, r.Adult),
		})
	}
	if len(regions) == 0 {
		return regions
	}

	// Classification needs the whole distribution, so it runs after grouping.
	regionTotals := make([]int, 0, len(regions))
	var subTotals []int
	for _, reg := range regions {
		regionTotals = append(regionTotals, reg.Total)
		for _, s := range reg.SubRegions {
			subTotals = append(subTotals, s.Total)
		}
	}
	regionClass := stats.NewClassifier(regionTotals)
	subClass := stats.NewClassifier(subTotals)
	for i := range regions {
		reg := &regions[i]
		reg.Dominant = DominantBracket(reg.Child, reg.Youth, reg.Adult)
		reg.Intensity = regionClass.Classify(reg.Total)
		for j := range reg.SubRegions {
			reg.SubRegions[j].Intensity = subClass.Classify(reg.SubRegions[j].Total)
		}
	}

	slices.SortStableFunc(regions, func(a, b RegionSummary) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return regions
}

// AvailablePeriods lists the distinct periods in records, newest first.
func AvailablePeriods(records []ingest.Record) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range records {
		if !seen[r.Period] {
			seen[r.Period] = true
			out = append(out, r.Period)
		}
	}
	slices.SortFunc(out, func(a, b string) int { return cmp.Compare(b, a) })
	return out
}

// subRegions flattens the sub-region rows of every region, keeping order.
func subRegions(regions []RegionSummary) []SubRegionSummary {
	var out []SubRegionSummary
	for _, reg := range regions {
		out = append(out, reg.SubRegions...)
	}
	return out
}

type shares struct {
	child, youth, adult float64
}

// bracketShares returns each bracket's fraction of total; zero totals give zero shares.
func bracketShares(s SubRegionSummary) shares {
	if s.Total == 0 {
		return shares{}
	}
	t := float64(s.Total)
	return shares{
		child: float64(s.Child) / t,
		youth: float64(s.Youth) / t,
		adult: float64(s.Adult) / t,
	}
}
