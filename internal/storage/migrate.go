package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

func migrationsDir(d Driver) string {
	if d == DriverSQLite {
		return "migrations/sqlite"
	}
	return "migrations/postgres"
}

// MigrationURL returns the golang-migrate database URL for dsn.
func MigrationURL(d Driver, dsn string) string {
	if d == DriverSQLite {
		return "sqlite://" + dsn
	}
	return dsn
}

// NewMigrator builds a migrate instance over the embedded SQL for driver d.
func NewMigrator(d Driver, dsn string) (*migrate.Migrate, error) {
	if d == DriverSQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	source, err := iofs.New(migrationsFS, migrationsDir(d))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(d, dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// Migrate applies all pending migrations. An up-to-date schema is not an error.
func Migrate(d Driver, dsn string) error {
	m, err := NewMigrator(d, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
