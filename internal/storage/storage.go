// Package storage opens the relational store behind the service and owns its
// schema. Three drivers are supported: "postgres" (pgx), "pq" (lib/pq) and
// "sqlite" (pure Go, used for local runs and tests).
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverPQ       Driver = "pq"
	DriverSQLite   Driver = "sqlite"
)

func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverPostgres, DriverPQ, DriverSQLite:
		return d, nil
	case "":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

type Options struct {
	MaxOpenConns int
	Logger       gormlogger.Interface
}

// SQLiteDSN turns a file path into a modernc DSN with foreign keys enforced and
// timestamps written in a sortable text format.
func SQLiteDSN(path string) string {
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_time_format=sqlite"
}

func dialector(d Driver, dsn string) (gorm.Dialector, error) {
	switch d {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverPQ:
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	case DriverSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: SQLiteDSN(dsn)}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}
	return nil
}

// Open connects to the database. For sqlite, dsn is a file path.
func Open(d Driver, dsn string, opts Options) (*gorm.DB, error) {
	dial, err := dialector(d, dsn)
	if err != nil {
		return nil, err
	}

	cfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if opts.Logger != nil {
		cfg.Logger = opts.Logger
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if d == DriverSQLite {
		// One writer at a time; WAL still lets the single connection read freely.
		sqlDB.SetMaxOpenConns(1)
	} else {
		maxOpen := opts.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 10
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen / 2)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
