package metrics

import (
	"fmt"
	"strconv"
)

// Overview is the headline numbers for one period.
type Overview struct {
	TotalUpdates int `json:"total_updates"`
	Child        int `json:"child"`
	Youth        int `json:"youth"`
	Adult        int `json:"adult"`
	Regions      int `json:"regions"`
	SubRegions   int `json:"sub_regions"`
}

// Summarize totals a period's region summaries.
func Summarize(regions []RegionSummary) Overview {
	var o Overview
	for _, reg := range regions {
		o.TotalUpdates += reg.Total
		o.Child += reg.Child
		o.Youth += reg.Youth
		o.Adult += reg.Adult
		o.SubRegions += len(reg.SubRegions)
	}
	o.Regions = len(regions)
	return o
}

// Display formats the total update count for a dashboard tile.
func (o Overview) Display() string {
	return FormatCount(o.TotalUpdates)
}

// FormatCount shortens a count: 1.2M, 3.4K, or the plain integer below 1000.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return strconv.Itoa(n)
	}
}
