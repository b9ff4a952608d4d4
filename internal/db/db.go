package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverFor picks the database/sql driver for a DSN. postgres:// and
// postgresql:// URLs go to lib/pq, anything else is a SQLite path or URI.
func DriverFor(dsn string) (string, Dialect) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return "postgres", DialectPostgres
	}
	return "sqlite", DialectSQLite
}

// Rebind rewrites $N placeholders for the target dialect. SQLite accepts
// the numbered ?N form.
func Rebind(d Dialect, query string) string {
	if d != DialectSQLite {
		return query
	}
	return strings.ReplaceAll(query, "$", "?")
}

// NewDatabase opens and pings the database behind dsn.
func NewDatabase(dsn string) (*sql.DB, Dialect, error) {
	driver, dialect := DriverFor(dsn)
	db, err := newDatabaseWithDriver(driver, dsn)
	if err != nil {
		return nil, "", err
	}
	return db, dialect, nil
}

func newDatabaseWithDriver(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}
