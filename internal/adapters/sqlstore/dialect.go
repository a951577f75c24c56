package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// PostgreSQL SQLSTATE error codes.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	sqlStateUniqueViolation = "23505"
	sqlStateClassConnection = "08"
	sqlStateAdminShutdown   = "57P01"
	sqlStateCannotConnect   = "57P03"
)

// Dialect captures what differs between engines: placeholders and how the
// driver reports constraint and connectivity failures.
type Dialect struct {
	Name              string
	Placeholder       sq.PlaceholderFormat
	IsUniqueViolation func(error) bool
	IsUnavailable     func(error) bool
}

var Postgres = Dialect{
	Name:              "postgres",
	Placeholder:       sq.Dollar,
	IsUniqueViolation: pgUniqueViolation,
	IsUnavailable:     pgUnavailable,
}

var SQLite = Dialect{
	Name:              "sqlite",
	Placeholder:       sq.Question,
	IsUniqueViolation: sqliteUniqueViolation,
	IsUnavailable:     sqliteUnavailable,
}

func pgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateUniqueViolation
	}

	return false
}

func pgUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == sqlStateClassConnection:
			return true
		case pgErr.Code == sqlStateAdminShutdown, pgErr.Code == sqlStateCannotConnect:
			return true
		}
	}

	return commonUnavailable(err)
}

func sqliteUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}

func sqliteUnavailable(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrReadonly:
			return true
		}
	}

	return commonUnavailable(err)
}

func commonUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
