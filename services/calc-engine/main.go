package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tenderflow/pkg/core/config"
	"tenderflow/pkg/core/logging"
	"tenderflow/pkg/core/metrics"
	"tenderflow/pkg/core/report"
	"tenderflow/pkg/core/store"
	"tenderflow/pkg/models"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	mode      string
	format    string
	in        string
	data      string
	out       string
	workspace string
	base      string
	rates     string
	asOf      string
	strict    bool
	fallback  float64
	config    string
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("calc-engine", flag.ContinueOnError)
	fs.StringVar(&o.mode, "mode", "dashboard", "Mode: dashboard, aggregate, highlights or import")
	fs.StringVar(&o.format, "format", "json", "Output format: json, md, html or xlsx")
	fs.StringVar(&o.in, "in", "", "Snapshot JSON file")
	fs.StringVar(&o.data, "data", "", "Inline snapshot JSON payload")
	fs.StringVar(&o.out, "out", "", "Output file (default stdout)")
	fs.StringVar(&o.workspace, "workspace", "", "Workspace name (import mode and report titles)")
	fs.StringVar(&o.base, "base", "", "Base currency (default from config)")
	fs.StringVar(&o.rates, "rates", "", "Rates file (.hjson, .json or .yaml)")
	fs.StringVar(&o.asOf, "as-of", "", "As-of instant, RFC 3339 (default now)")
	fs.BoolVar(&o.strict, "strict", false, "Fail on missing currency rates")
	fs.Float64Var(&o.fallback, "starting-balance", 0, "Starting balance when no bank accounts exist")
	fs.StringVar(&o.config, "config", config.DefaultPath, "Config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.format == "xlsx" && o.out == "" {
		return nil, errors.New("xlsx output requires -out")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Service.Environment,
		ServiceName: "calc-engine",
	})

	snap, err := readSnapshot(o)
	if err != nil {
		return err
	}

	if o.mode == "import" {
		return importSnapshot(ctx, cfg, o.workspace, snap)
	}

	opts := metrics.Options{
		BaseCurrency:            cfg.Currency.Base,
		CurrencyRates:           cfg.Currency.Rates,
		CurrencyTimestamp:       cfg.Currency.TimestampPtr(),
		StrictCurrency:          cfg.Currency.Strict || o.strict,
		StartingBalanceFallback: o.fallback,
		Logger:                  &log,
	}
	if o.base != "" {
		opts.BaseCurrency = o.base
	}
	if o.rates != "" {
		table, err := config.LoadRates(o.rates)
		if err != nil {
			return err
		}
		opts.CurrencyRates = table.Rates
		opts.CurrencyTimestamp = nil
		if table.Timestamp != "" {
			opts.CurrencyTimestamp = &table.Timestamp
		}
	}
	asOf := time.Now().UTC()
	if o.asOf != "" {
		if asOf, err = time.Parse(time.RFC3339, o.asOf); err != nil {
			return fmt.Errorf("invalid -as-of: %w", err)
		}
	}
	opts.AsOf = &asOf

	output, err := render(o, snap, opts)
	if err != nil {
		return err
	}
	if o.out == "" {
		_, err = stdout.Write(output)
		return err
	}
	if err := os.WriteFile(o.out, output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("mode", o.mode).Str("format", o.format).Str("out", o.out).Msg("output written")
	return nil
}

func readSnapshot(o *options) (*models.Snapshot, error) {
	var data []byte
	switch {
	case o.data != "":
		data = []byte(o.data)
	case o.in != "":
		var err error
		if data, err = os.ReadFile(o.in); err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
	default:
		return nil, errors.New("no data provided, use -in or -data")
	}
	return store.DecodeSnapshot(data, o.workspace)
}

func render(o *options, snap *models.Snapshot, opts metrics.Options) ([]byte, error) {
	title := strings.TrimSpace(snap.Workspace + " dashboard")

	switch o.mode {
	case "highlights":
		if o.format != "json" {
			return nil, fmt.Errorf("highlights mode supports json only")
		}
		return marshal(metrics.SelectFinancialHighlights(metrics.HighlightInputFrom(snap)))
	case "aggregate":
		if o.format != "json" {
			return nil, fmt.Errorf("aggregate mode supports json only")
		}
		agg, err := metrics.SelectAggregatedFinancialMetrics(metrics.AggregateInputFrom(snap), opts)
		if err != nil {
			return nil, err
		}
		return marshal(agg)
	case "dashboard":
	default:
		return nil, fmt.Errorf("unknown mode: %s", o.mode)
	}

	dash, err := metrics.SelectDashboardMetrics(metrics.DashboardInputFrom(snap), opts)
	if err != nil {
		return nil, err
	}
	switch o.format {
	case "json":
		return marshal(dash)
	case "md", "html":
		md := report.Markdown(title, dash, metrics.SelectFinancialHighlights(metrics.HighlightInputFrom(snap)))
		if o.format == "md" {
			return []byte(md), nil
		}
		page, err := report.HTML(title, md)
		return []byte(page), err
	case "xlsx":
		agg, err := metrics.SelectAggregatedFinancialMetrics(metrics.AggregateInputFrom(snap), opts)
		if err != nil {
			return nil, err
		}
		f, err := report.Workbook(dash, agg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var buf bytes.Buffer
		if _, err := f.WriteTo(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", o.format)
	}
}

func marshal(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// importSnapshot stores the snapshot documents so the API can serve them.
func importSnapshot(ctx context.Context, cfg *config.Config, workspace string, snap *models.Snapshot) error {
	if workspace == "" {
		return errors.New("import mode requires -workspace")
	}
	if err := store.Migrate(ctx, cfg.Database.URL); err != nil {
		return err
	}
	if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
		return err
	}
	defer store.Close()
	return store.NewSnapshotRepo(nil).Save(ctx, workspace, snap)
}
