package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fleet-usage/internal/config"
	"fleet-usage/internal/data"
	"fleet-usage/internal/logging"

	"go.uber.org/zap"
)

// import-dataset loads a JSON fleet export into the configured SQL store.
func main() {
	cfgPath := flag.String("config", os.Getenv("FLEET_CONFIG"), "Path to YAML config")
	inPath := flag.String("in", "", "JSON dataset to import (default: store.dataset_file)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.Must(cfg.Server.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Store.Driver == config.DriverJSON {
		log.Fatal("store.driver must be sqlite or postgres to import")
	}
	path := *inPath
	if path == "" {
		path = cfg.Store.DatasetFile
	}
	if path == "" {
		log.Fatal("--in is required when store.dataset_file is not set")
	}

	ds, err := data.LoadDataset(path)
	if err != nil {
		log.Fatal("load dataset", zap.String("path", path), zap.Error(err))
	}

	ctx := context.Background()
	store, err := data.OpenSQLStore(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	stats, err := store.ImportDataset(ctx, ds)
	if err != nil {
		log.Fatal("import dataset", zap.String("path", path), zap.Error(err))
	}
	log.Info("dataset imported",
		zap.String("path", path),
		zap.String("driver", cfg.Store.Driver),
		zap.Int("assets", stats.Assets),
		zap.Int("assignments", stats.Assignments),
		zap.Int("checklists", stats.Checklists),
		zap.Int("diesel", stats.Diesel),
		zap.Int("costs", stats.Costs),
	)
}
