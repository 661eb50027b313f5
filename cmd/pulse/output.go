package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"pulse-analytics/internal/metrics"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeSummary(w io.Writer, r metrics.Report) error {
	fmt.Fprintf(w, "Period %s: %s updates across %d regions, %d sub-regions\n\n",
		r.Period, r.Overview.Display(), r.Overview.Regions, r.Overview.SubRegions)
	tw := newTable(w)
	fmt.Fprintln(tw, "REGION\tTOTAL\tCHILD\tYOUTH\tADULT\tDOMINANT\tINTENSITY")
	for _, reg := range r.Regions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			reg.Region,
			metrics.FormatCount(reg.Total),
			metrics.FormatCount(reg.Child),
			metrics.FormatCount(reg.Youth),
			metrics.FormatCount(reg.Adult),
			reg.Dominant,
			reg.Intensity)
	}
	return tw.Flush()
}

func writeTop(w io.Writer, subs []metrics.SubRegionSummary) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSUB-REGION\tREGION\tTOTAL\tDOMINANT\tINTENSITY")
	for i, s := range subs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, s.SubRegion, s.Region, metrics.FormatCount(s.Total), s.Dominant, s.Intensity)
	}
	return tw.Flush()
}

func writeAlerts(w io.Writer, alerts []metrics.Alert) error {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "no alerts")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "SEVERITY\tREGION\tSUB-REGION\tMESSAGE")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Severity, a.Region, a.SubRegion, a.Message)
	}
	return tw.Flush()
}

func writeRecommendations(w io.Writer, recs []metrics.Recommendation) error {
	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s] %s, %s (%s updates)\n", rec.Severity, rec.SubRegion, rec.Region, metrics.FormatCount(rec.Total))
		fmt.Fprintf(w, "  why:    %s\n", joinLines(rec.Reasons))
		fmt.Fprintf(w, "  do:     %s\n", joinLines(rec.Actions))
		fmt.Fprintf(w, "  impact: %s\n", rec.ExpectedImpact)
	}
	return nil
}
