package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect names a database/sql driver and renders the SQL fragments that
// differ between the supported backends. Placeholders are $N for both: pgx
// requires them and modernc.org/sqlite binds $N by ordinal.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// ParseDialect validates a configured driver name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(name); d {
	case Postgres, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string {
	return string(d)
}

// GooseDialect is the dialect name understood by goose.
func (d Dialect) GooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Contains renders a case-sensitive substring predicate: column contains the
// value bound to placeholder. LIKE is avoided because SQLite's LIKE folds
// ASCII case and both backends treat % and _ in the needle as wildcards.
func (d Dialect) Contains(column, placeholder string) string {
	if d == SQLite {
		return fmt.Sprintf("instr(%s, %s) > 0", column, placeholder)
	}
	return fmt.Sprintf("strpos(%s, %s) > 0", column, placeholder)
}

// UniqueViolation reports whether err is a unique-constraint violation raised
// by either backend. detail carries the constraint name (Postgres) or the
// driver message naming the column (SQLite), so callers can tell which
// field collided.
func UniqueViolation(err error) (detail string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return sqliteErr.Error(), true
		}
	}
	return "", false
}
