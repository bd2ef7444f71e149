package config

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/internal/db"
	"github.com/OFFIS-RIT/contingency/backend/pkg/leaselock"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"
	pgxstore "github.com/OFFIS-RIT/contingency/backend/pkg/store/pgx"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenStore connects the store selected by Store.Adapter. The PostgreSQL
// schema is migrated before the pool is opened. The returned func releases
// the connection.
func (c *Config) OpenStore(ctx context.Context) (store.AnalysisStorage, func(), error) {
	switch c.Store.Adapter {
	case "sqlite":
		s, err := sqlite.NewAnalysisSQLiteStorage(ctx, c.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("[Store] Using sqlite", "path", c.Store.SQLitePath)
		return s, func() { s.Close() }, nil
	case "", "postgres":
		if c.Store.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is not set")
		}
		if err := db.Migrate(c.Store.DatabaseURL, c.Store.MigrationsPath); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.New(ctx, c.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("[Store] Using postgres")
		return pgxstore.NewAnalysisDBStorageWithConnection(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store adapter %q", c.Store.Adapter)
	}
}

// OpenLeases returns the task lease client for the PostgreSQL store. With
// the sqlite store there is a single process and no client is returned.
func (c *Config) OpenLeases(ctx context.Context, holderPrefix string) (*leaselock.Client, func(), error) {
	if c.Store.Adapter == "sqlite" {
		return nil, func() {}, nil
	}
	if c.Store.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, c.Store.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	client := leaselock.New(pool, leaselock.Options{
		TTL:          c.Store.LeaseTTL,
		HolderPrefix: holderPrefix,
	})
	return client, pool.Close, nil
}
