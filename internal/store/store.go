// Package store persists users, items, bookings, comments and item requests.
//
// Queries are built with goqu for the configured SQL dialect and scanned with
// sqlx. Lookups by id return nil, nil when the row does not exist.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/izposoja/internal/db"
)

// ErrDuplicateEmail is returned when a user would share an email with another user.
var ErrDuplicateEmail = errors.New("email already in use")

const pgUniqueViolation = "23505"

// Store is the SQL-backed entity store.
type Store struct {
	db        *sqlx.DB
	dialect   goqu.DialectWrapper
	returning bool
	lower     string
}

// New wraps an open database. driver is one of the names accepted by db.Open.
func New(database *sql.DB, driver string) (*Store, error) {
	driver, err := db.NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	s := &Store{}
	switch driver {
	case db.DriverPostgres:
		s.db = sqlx.NewDb(database, "pgx")
		s.dialect = goqu.Dialect("postgres")
		s.returning = true
		s.lower = "LOWER"
	default:
		s.db = sqlx.NewDb(database, "sqlite3")
		s.dialect = goqu.Dialect("sqlite3")
		s.lower = db.SQLiteLower
	}
	return s, nil
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sql.DB { return s.db.DB }

// insert runs an insert and returns the generated id.
func (s *Store) insert(ctx context.Context, ds *goqu.InsertDataset) (int64, error) {
	if s.returning {
		query, args, err := ds.Returning("id").Prepared(true).ToSQL()
		if err != nil {
			return 0, fmt.Errorf("building insert: %w", err)
		}
		var id int64
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("building insert: %w", err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// exec runs an update or delete and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, query string, args []any, buildErr error) (int64, error) {
	if buildErr != nil {
		return 0, fmt.Errorf("building statement: %w", buildErr)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// get scans a single row into dest. It reports false when there is no row.
func (s *Store) get(ctx context.Context, dest any, ds *goqu.SelectDataset) (bool, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}
	err = s.db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// list scans all rows into dest, which must be a pointer to a slice.
func (s *Store) list(ctx context.Context, dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

// exists reports whether the query returns at least one row.
func (s *Store) exists(ctx context.Context, ds *goqu.SelectDataset) (bool, error) {
	var one int
	return s.get(ctx, &one, ds.Select(goqu.L("1")).Limit(1))
}

// isUniqueViolation recognises unique constraint failures from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

// utc normalises instants before they are written or compared, so that
// SQLite's textual timestamps order the same way as the instants themselves.
func utc(t time.Time) time.Time {
	return t.UTC()
}
