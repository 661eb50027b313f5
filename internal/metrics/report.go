package metrics

import "pulse-analytics/internal/ingest"

// Report bundles everything the dashboard renders for one period.
type Report struct {
	DatasetID       string             `json:"dataset_id"`
	Period          string             `json:"period"`
	Periods         []string           `json:"periods"`
	Overview        Overview           `json:"overview"`
	Regions         []RegionSummary    `json:"regions"`
	Top             []SubRegionSummary `json:"top"`
	Alerts          []Alert            `json:"alerts"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// BuildReport runs every engine stage for period. An empty period selects the
// most recent one in the dataset.
func (e *Engine) BuildReport(ds ingest.Dataset, period string, topN int) Report {
	periods := AvailablePeriods(ds.Records)
	if period == "" && len(periods) > 0 {
		period = periods[0]
	}
	regions := e.Regions(ds, period)
	return Report{
		DatasetID:       ds.ID,
		Period:          period,
		Periods:         periods,
		Overview:        Summarize(regions),
		Regions:         regions,
		Top:             TopSubRegions(regions, topN),
		Alerts:          DetectAlerts(regions),
		Recommendations: Recommend(regions),
	}
}
