package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pulse-analytics/internal/export"
	"pulse-analytics/internal/metrics"
)

var (
	flagPeriod string
	flagLimit  int
	flagDB     string
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the periods present in the dataset, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cli.loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		periods := metrics.AvailablePeriods(ds.Records)
		if cli.format == "json" {
			return writeJSON(cmd.OutOrStdout(), periods)
		}
		for _, p := range periods {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Region and sub-region summaries for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cli.loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		r := cli.report(ds, flagPeriod, flagLimit)
		if cli.format == "json" {
			return writeJSON(cmd.OutOrStdout(), struct {
				Period   string                           `json:"period"`
				Overview metrics.Overview                 `json:"overview"`
				Regions  []metrics.RegionSummary          `json:"regions"`
				ByName   map[string]metrics.RegionSummary `json:"by_canonical_name"`
			}{r.Period, r.Overview, r.Regions, cli.resolver.Index(r.Regions)})
		}
		return writeSummary(cmd.OutOrStdout(), r)
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Busiest sub-regions for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cli.loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		r := cli.report(ds, flagPeriod, flagLimit)
		if cli.format == "json" {
			return writeJSON(cmd.OutOrStdout(), r.Top)
		}
		return writeTop(cmd.OutOrStdout(), r.Top)
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Sub-regions with an unusual age-bracket mix",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cli.loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		r := cli.report(ds, flagPeriod, flagLimit)
		if cli.format == "json" {
			return writeJSON(cmd.OutOrStdout(), r.Alerts)
		}
		return writeAlerts(cmd.OutOrStdout(), r.Alerts)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggested actions for high-intensity sub-regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := cli.loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		r := cli.report(ds, flagPeriod, flagLimit)
		if cli.format == "json" {
			return writeJSON(cmd.OutOrStdout(), r.Recommendations)
		}
		if len(r.Recommendations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), metrics.PlaceholderInsight(int(time.Now().Unix())))
			return nil
		}
		return writeRecommendations(cmd.OutOrStdout(), r.Recommendations)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a period report into a SQLite file",
	Long: `Write the full report for a period (regions, sub-regions, alerts and
recommendations) into a SQLite database for downstream BI tools. Re-exporting a
period replaces its rows.`,
	RunE: runExport,
}

func init() {
	for _, c := range []*cobra.Command{summaryCmd, topCmd, alertsCmd, recommendCmd, exportCmd} {
		c.Flags().StringVar(&flagPeriod, "period", "", "Period to report (YYYY-MM, default: most recent)")
	}
	for _, c := range []*cobra.Command{summaryCmd, topCmd, exportCmd} {
		c.Flags().IntVar(&flagLimit, "limit", 10, "Number of top sub-regions")
	}
	exportCmd.Flags().StringVar(&flagDB, "db", "./data/pulse.sqlite", "SQLite file to write")

	rootCmd.AddCommand(periodsCmd, summaryCmd, topCmd, alertsCmd, recommendCmd, exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ds, err := cli.loadDataset(ctx)
	if err != nil {
		return err
	}
	r := cli.report(ds, flagPeriod, flagLimit)
	if r.Period == "" {
		return fmt.Errorf("dataset has no periods")
	}

	if err := os.MkdirAll(filepath.Dir(flagDB), 0o755); err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", flagDB+"?_busy_timeout=5000&_foreign_keys=1")
	if err != nil {
		return err
	}
	defer db.Close()

	st := export.New(db)
	if err := st.InitSchema(); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := st.SaveReport(ctx, r); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	exportedAt := time.Now().Format(time.RFC3339)
	if err := st.SetState(ctx, "last_export", exportedAt); err != nil {
		return err
	}

	log.Info().
		Str("period", r.Period).
		Str("db", flagDB).
		Int("regions", len(r.Regions)).
		Int("alerts", len(r.Alerts)).
		Msg("report exported")
	if cli.format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"period":      r.Period,
			"db":          flagDB,
			"regions":     len(r.Regions),
			"exported_at": exportedAt,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d regions) to %s\n", r.Period, len(r.Regions), flagDB)
	return nil
}

// joinLines renders a list on one table cell.
func joinLines(items []string) string {
	return strings.Join(items, "; ")
}
