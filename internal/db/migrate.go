package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const DefaultMigrationsPath = "internal/db/migrations"

// Migrate applies every pending up migration found in dir to the database
// at databaseURL. An already current schema is not an error.
func Migrate(databaseURL string, dir string) error {
	if dir == "" {
		dir = DefaultMigrationsPath
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid migrations path %q: %w", dir, err)
	}

	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+abs, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("[DB] Schema is up to date", "version", version, "dirty", dirty)
	return nil
}
