package db

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// SQLiteLower is a SQLite function that lowercases text with Unicode case
// folding. The built-in LOWER only folds ASCII.
const SQLiteLower = "unicode_lower"

func init() {
	err := sqlite.RegisterDeterministicScalarFunction(SQLiteLower, 1, func(_ *sqlite.FunctionContext, args []sqldriver.Value) (sqldriver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
	if err != nil {
		panic(fmt.Sprintf("registering %s: %v", SQLiteLower, err))
	}
}

// DefaultSQLitePath is the database file used when sqlite is selected without a path.
const DefaultSQLitePath = "izposoja.sqlite3"

// DefaultPostgresDSN is used when the postgres driver is selected without a DSN.
const DefaultPostgresDSN = "postgres://localhost/izposoja?sslmode=disable"

// Open opens a database connection for the given driver and configures it.
// Driver aliases "sqlite3" and "postgres" are accepted. An empty dsn selects
// DefaultDSN(driver).
func Open(driver, dsn string) (*sql.DB, error) {
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	if dsn == "" {
		dsn = DefaultDSN(driver)
	}

	switch driver {
	case DriverPostgres:
		return openPostgres(dsn)
	default:
		return openSQLite(dsn)
	}
}

// DefaultDSN returns the database used when none is configured for driver.
func DefaultDSN(driver string) string {
	if d, err := NormalizeDriver(driver); err == nil && d == DriverPostgres {
		return DefaultPostgresDSN
	}
	return DefaultSQLitePath
}

// NormalizeDriver maps user-facing driver names onto registered drivers.
func NormalizeDriver(driver string) (string, error) {
	switch driver {
	case "", DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection, so the pragmas below stay in force and ":memory:"
	// databases are shared by every query.
	db.SetMaxOpenConns(1)

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}
