package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fleet-usage/internal/analysis"
	"fleet-usage/internal/attribution"
	"fleet-usage/internal/config"
	"fleet-usage/internal/data"
	"fleet-usage/internal/logging"
	"fleet-usage/internal/model"
	"fleet-usage/internal/report"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "usage":
		cmdUsage(os.Args[2:])
	case "attribute":
		cmdAttribute(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	case "plants":
		cmdPlants(os.Args[2:])
	case "costs":
		cmdCosts(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli usage --config config.yaml --asset EX-01 --from 2025-01-01 --to 2025-01-31 [--segments results/segments.csv]")
	fmt.Println("  cli attribute --config config.yaml --asset EX-01 [--at 2025-01-15T08:00:00Z] [--from ... --to ...]")
	fmt.Println("  cli report --config config.yaml --from 2025-01-01 --to 2025-01-31 --out results/usage.csv")
	fmt.Println("  cli plants --config config.yaml --from 2025-01-01 --to 2025-01-31 [--limit 10]")
	fmt.Println("  cli costs --config config.yaml --from 2025-01-01 --to 2025-01-31")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --config the store comes from FLEET_DB_DRIVER / FLEET_DB_DSN / FLEET_DATASET")
	fmt.Println("  - --to is inclusive; usage is attributed to the plant owning the asset at the end of that day")
}

// common holds the flags every subcommand shares.
type common struct {
	cfgPath *string
	verbose *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath: fs.String("config", os.Getenv("FLEET_CONFIG"), "Path to YAML config"),
		verbose: fs.Bool("v", false, "Log reconciler progress to stderr"),
	}
}

func (c common) open(ctx context.Context) (*config.Config, data.Source, *zap.Logger) {
	cfg, err := config.LoadOrDefault(*c.cfgPath)
	if err != nil {
		panic(err)
	}
	src, err := data.Open(ctx, cfg.Store)
	if err != nil {
		panic(err)
	}
	log := zap.NewNop()
	if *c.verbose {
		log = logging.Must(cfg.Server.Env)
	}
	return cfg, src, log
}

func mustWindow(from, to string) model.ReportingWindow {
	if from == "" || to == "" {
		fmt.Println("--from and --to are required")
		os.Exit(2)
	}
	w, err := model.ParseWindow(from, to)
	if err != nil {
		panic(err)
	}
	return w
}

func cmdUsage(args []string) {
	fs := flag.NewFlagSet("usage", flag.ExitOnError)
	cf := commonFlags(fs)
	assetID := fs.String("asset", "", "Asset ID")
	from := fs.String("from", "", "Window start (YYYY-MM-DD)")
	to := fs.String("to", "", "Window end, inclusive (YYYY-MM-DD)")
	segPath := fs.String("segments", "", "Optional: write the segment ledger CSV here")
	_ = fs.Parse(args)

	if *assetID == "" {
		fmt.Println("--asset is required")
		os.Exit(2)
	}
	w := mustWindow(*from, *to)

	ctx := context.Background()
	cfg, src, log := cf.open(ctx)
	defer src.Close()

	asset, err := src.Asset(ctx, *assetID)
	if err != nil {
		panic(err)
	}
	events, err := src.AssignmentEvents(ctx, asset.ID)
	if err != nil {
		panic(err)
	}
	engine := report.New(cfg.Reconciler, 1, log)
	row, err := engine.Asset(ctx, src, asset, attribution.BuildAssignmentHistoryMap(events), w)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Asset %s (%s) window %s\n", row.AssetID, row.AssetName, w)
	fmt.Printf("Usage=%.2f plant=%s (current %s)\n", row.Usage, orDash(row.PlantID), orDash(row.CurrentPlantID))
	fmt.Printf("Diesel kept/dropped=%d/%d checklist kept/dropped=%d/%d invalid=%d\n",
		row.DieselKept, row.DieselDropped, row.ChecklistKept, row.ChecklistDropped, row.InvalidReadings)
	if row.Envelope != nil {
		fmt.Printf("Envelope=%s\n", row.Envelope)
	}
	fmt.Printf("Segments=%d capped=%d resets=%d\n", len(row.Segments), row.CappedSegments, row.ResetSegments)

	if *segPath != "" {
		if err := report.WriteSegmentsCSV(*segPath, report.Segments([]report.Row{row})); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote segments to %s\n", *segPath)
	}
}

func cmdAttribute(args []string) {
	fs := flag.NewFlagSet("attribute", flag.ExitOnError)
	cf := commonFlags(fs)
	assetID := fs.String("asset", "", "Asset ID")
	at := fs.String("at", "", "Instant to resolve (RFC3339 or YYYY-MM-DD); empty means current plant")
	from := fs.String("from", "", "Optional: print the plant timeline from this date")
	to := fs.String("to", "", "Optional: timeline end, inclusive")
	_ = fs.Parse(args)

	if *assetID == "" {
		fmt.Println("--asset is required")
		os.Exit(2)
	}

	ctx := context.Background()
	_, src, _ := cf.open(ctx)
	defer src.Close()

	asset, err := src.Asset(ctx, *assetID)
	if err != nil {
		panic(err)
	}
	events, err := src.AssignmentEvents(ctx, asset.ID)
	if err != nil {
		panic(err)
	}
	history := attribution.BuildAssignmentHistoryMap(events)

	plant := attribution.ResolvePlantAtTimestamp(asset.ID, *at, asset.CurrentPlantID, history)
	fmt.Printf("%s at %s: %s\n", asset.ID, orDash(*at), orDash(plant))

	if *from != "" || *to != "" {
		w := mustWindow(*from, *to)
		for _, span := range attribution.Timeline(asset.ID, w, asset.CurrentPlantID, history) {
			until := "open"
			if !span.Until.IsZero() {
				until = span.Until.Format("2006-01-02 15:04")
			}
			fmt.Printf("  %-10s %s -> %s\n", orDash(span.PlantID), span.Since.Format("2006-01-02 15:04"), until)
		}
	}
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cf := commonFlags(fs)
	from := fs.String("from", "", "Window start (YYYY-MM-DD)")
	to := fs.String("to", "", "Window end, inclusive (YYYY-MM-DD)")
	outPath := fs.String("out", "", "Output CSV path (default: <report.output_dir>/usage_<from>_<to>.csv)")
	segPath := fs.String("segments", "", "Optional: segment ledger CSV path")
	_ = fs.Parse(args)

	w := mustWindow(*from, *to)
	ctx := context.Background()
	cfg, src, log := cf.open(ctx)
	defer src.Close()

	res, err := report.New(cfg.Reconciler, cfg.Report.Concurrency, log).Run(ctx, src, w)
	if err != nil {
		panic(err)
	}

	if *outPath == "" {
		*outPath = filepath.Join(cfg.Report.OutputDir, fmt.Sprintf("usage_%s_%s.csv", *from, *to))
	}
	if err := report.WriteUsageCSV(*outPath, res.Rows); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), *outPath)

	if *segPath != "" {
		segments := report.Segments(res.Rows)
		if err := report.WriteSegmentsCSV(*segPath, segments); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d segments to %s\n", len(segments), *segPath)
	}
	fmt.Printf("Run %s: total usage=%.2f assets with data=%d/%d capped=%d resets=%d\n",
		res.RunID, res.TotalUsage, res.AssetsWithData, len(res.Rows), res.CappedSegments, res.ResetSegments)
}

func cmdPlants(args []string) {
	fs := flag.NewFlagSet("plants", flag.ExitOnError)
	cf := commonFlags(fs)
	from := fs.String("from", "", "Window start (YYYY-MM-DD)")
	to := fs.String("to", "", "Window end, inclusive (YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "Optional: show only the top N plants (0=all)")
	_ = fs.Parse(args)

	w := mustWindow(*from, *to)
	ctx := context.Background()
	cfg, src, log := cf.open(ctx)
	defer src.Close()

	res, err := report.New(cfg.Reconciler, cfg.Report.Concurrency, log).Run(ctx, src, w)
	if err != nil {
		panic(err)
	}

	ranked := analysis.Top(analysis.RollupByPlant(res.Rows), *limit)
	fmt.Printf("%-4s %-14s %-7s %-12s %-10s %-10s %-8s\n", "rank", "plant", "assets", "total", "mean", "p95", "capped")
	for i, p := range ranked {
		fmt.Printf(
			"%-4d %-14s %-7d %-12.2f %-10.2f %-10.2f %-8d\n",
			i+1,
			p.PlantID,
			p.Assets,
			p.TotalUsage,
			p.MeanUsage,
			p.P95Usage,
			p.CappedSegments,
		)
	}
}

func cmdCosts(args []string) {
	fs := flag.NewFlagSet("costs", flag.ExitOnError)
	cf := commonFlags(fs)
	from := fs.String("from", "", "Window start (YYYY-MM-DD)")
	to := fs.String("to", "", "Window end, inclusive (YYYY-MM-DD)")
	_ = fs.Parse(args)

	w := mustWindow(*from, *to)
	ctx := context.Background()
	_, src, _ := cf.open(ctx)
	defer src.Close()

	costs, err := src.Costs(ctx, w.From, w.ToExclusive)
	if err != nil {
		panic(err)
	}
	assets, err := src.Assets(ctx)
	if err != nil {
		panic(err)
	}
	events, err := src.AssignmentEvents(ctx)
	if err != nil {
		panic(err)
	}
	rep := analysis.AttributeCosts(costs, assets, attribution.BuildAssignmentHistoryMap(events))

	fmt.Printf("%-14s %-8s %-12s %s\n", "plant", "entries", "total", "by category")
	for _, p := range rep.Plants {
		fmt.Printf("%-14s %-8d %-12.2f %s\n", p.PlantID, p.Entries, p.Total, formatCategories(p.ByCategory))
	}
	fmt.Printf("Total=%.2f across %d entries\n", rep.Total, len(rep.Costs))
}

func formatCategories(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
