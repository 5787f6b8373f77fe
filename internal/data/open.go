package data

import (
	"context"
	"fmt"

	"fleet-usage/internal/config"
)

// Open builds the Source described by the store config.
func Open(ctx context.Context, c config.StoreConfig) (Source, error) {
	switch c.Driver {
	case config.DriverJSON:
		return OpenDatasetSource(c.DatasetFile)
	case config.DriverSQLite, config.DriverPostgres:
		store, err := OpenSQLStore(ctx, c.Driver, c.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", c.Driver)
	}
}
