package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies all pending schema migrations. sourceURL points at
// the migration files (e.g. "file://migrations"). A fully migrated schema
// is not an error.
func RunMigrations(dsn string, sourceURL string) error {
	return runMigrations(dsn, sourceURL, (*migrate.Migrate).Up)
}

// RunMigrationsDown rolls back every applied migration.
func RunMigrationsDown(dsn string, sourceURL string) error {
	return runMigrations(dsn, sourceURL, (*migrate.Migrate).Down)
}

func runMigrations(dsn string, sourceURL string, apply func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}

	applyErr := apply(m)
	if applyErr != nil && !errors.Is(applyErr, migrate.ErrNoChange) {
		m.Close()
		return fmt.Errorf("postgres: apply migrations: %w", applyErr)
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return fmt.Errorf("postgres: close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("postgres: close migration database: %w", dbErr)
	}
	return nil
}
