package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pulse-analytics/internal/config"
	"pulse-analytics/internal/geo"
	"pulse-analytics/internal/ingest"
	"pulse-analytics/internal/metrics"
	"pulse-analytics/internal/telemetry"
)

// app carries what every subcommand needs once the root has been set up.
type app struct {
	cfg      config.Config
	format   string
	engine   *metrics.Engine
	resolver *geo.Resolver
	metrics  *telemetry.Metrics
}

var (
	flagFile      string
	flagURL       string
	flagFormat    string
	flagLogLevel  string
	flagAliasFile string
	flagTextfile  string

	cli app
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Regional update-activity analytics",
	Long: `pulse aggregates monthly update-activity records by region and sub-region,
classifies intensity, raises alerts for unusual age-bracket mixes, and suggests
actions for overloaded districts.

Examples:
  pulse periods --file data/updates.csv
  pulse summary --period 2024-01
  pulse alerts --url https://example.org/updates.csv --format json`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: flushMetrics,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFile, "file", "", "Path to the CSV dataset (overrides PULSE_DATA_FILE)")
	pf.StringVar(&flagURL, "url", "", "URL of the CSV dataset (overrides PULSE_DATA_URL)")
	pf.StringVar(&flagFormat, "format", "table", "Output format: table, json")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagAliasFile, "alias-file", "", "YAML file with extra region aliases")
	pf.StringVar(&flagTextfile, "metrics-textfile", "", "Write run metrics to this node_exporter textfile")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagFile != "" {
		cfg.DataFile = flagFile
		cfg.DataURL = ""
	}
	if flagURL != "" {
		cfg.DataURL = flagURL
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagAliasFile != "" {
		cfg.AliasFile = flagAliasFile
	}
	if flagTextfile != "" {
		cfg.MetricsTextfile = flagTextfile
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	switch strings.ToLower(flagFormat) {
	case "table", "json":
	default:
		return fmt.Errorf("unknown format %q", flagFormat)
	}

	engine, err := metrics.NewEngine(cfg.CacheSize)
	if err != nil {
		return err
	}
	resolver, err := geo.NewResolver()
	if err != nil {
		return err
	}
	if cfg.AliasFile != "" {
		if err := resolver.LoadFile(cfg.AliasFile); err != nil {
			return fmt.Errorf("load aliases: %w", err)
		}
	}

	cli = app{
		cfg:      cfg,
		format:   strings.ToLower(flagFormat),
		engine:   engine,
		resolver: resolver,
		metrics:  telemetry.New(),
	}
	return nil
}

// flushMetrics writes the run's metrics when a textfile path is configured.
func flushMetrics(cmd *cobra.Command, args []string) error {
	if cli.cfg.MetricsTextfile == "" || cli.metrics == nil {
		return nil
	}
	if err := cli.metrics.WriteTextfile(cli.cfg.MetricsTextfile); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func setupLogging(cfg config.Config) error {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

// loadDataset fetches or reads the payload once and parses it.
func (a *app) loadDataset(ctx context.Context) (ingest.Dataset, error) {
	var (
		raw    []byte
		err    error
		source string
	)
	if a.cfg.DataURL != "" {
		source = a.cfg.DataURL
		ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
		defer cancel()
		raw, err = ingest.NewClient(a.cfg.FetchTimeout).FetchCSV(ctx, a.cfg.DataURL)
	} else {
		source = a.cfg.DataFile
		raw, err = ingest.ReadFile(a.cfg.DataFile)
	}
	if err != nil {
		return ingest.Dataset{}, fmt.Errorf("load dataset from %s: %w", source, err)
	}

	ds := ingest.Load(raw)
	a.metrics.RowsParsed.Add(float64(len(ds.Records)))
	for _, re := range ds.Rejected {
		field := re.Field
		if field == "" {
			field = "row"
		}
		a.metrics.RowsRejected.WithLabelValues(field).Inc()
		log.Warn().Int("line", re.Line).Str("field", re.Field).Str("value", re.Value).Err(re.Err).Msg("skipping malformed row")
	}
	log.Debug().
		Str("source", source).
		Str("dataset", ds.ID[:12]).
		Int("records", len(ds.Records)).
		Int("rejected", len(ds.Rejected)).
		Msg("dataset loaded")
	return ds, nil
}

// report builds the report for period and records run metrics.
func (a *app) report(ds ingest.Dataset, period string, topN int) metrics.Report {
	start := time.Now()
	r := a.engine.BuildReport(ds, period, topN)
	a.metrics.ObserveSince(start)
	for _, sev := range []metrics.Severity{metrics.SeverityHigh, metrics.SeverityMedium} {
		n := 0
		for _, al := range r.Alerts {
			if al.Severity == sev {
				n++
			}
		}
		a.metrics.Alerts.WithLabelValues(string(sev)).Set(float64(n))
	}
	if len(r.Regions) == 0 {
		log.Info().Str("period", r.Period).Msg("no data for period")
	}
	return r
}
