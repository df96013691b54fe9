package shared

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite       = "sqlite3"
	DriverModernSQLite = "sqlite"
	DriverPostgres     = "pgx"
)

const sqliteBusyTimeoutMS = 5000

// Dialect identifies the SQL flavor spoken by a backing engine.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a driver name to its [Dialect].
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, DriverModernSQLite:
		return DialectSQLite, nil
	case DriverPostgres, "postgres":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, driver)
	}
}

// Rebind rewrites "?" placeholders into the dialect's positional form.
//
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewDatabase opens a connection using the given driver and data source name.
// For sqlite drivers the dsn can be ":memory:" for an in-memory database.
// Returns an open database connection or an error if connection fails.
func NewDatabase(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenDatabase opens and configures the database described by cfg.
//
// sqlite paths are created on demand and opened with a busy timeout; the pool defaults to a single connection.
func OpenDatabase(ctx context.Context, cfg DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.DSN
	if dialect == DialectSQLite {
		if cfg.Path == "" {
			return nil, "", fmt.Errorf("%w: database.path is required for %s", ErrInvalidConfig, cfg.Driver)
		}
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
				return nil, "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = SQLiteDSN(cfg.Driver, cfg.Path)
	}
	if dsn == "" {
		return nil, "", fmt.Errorf("%w: database.dsn is required for %s", ErrInvalidConfig, cfg.Driver)
	}

	db, err := NewDatabase(cfg.Driver, dsn)
	if err != nil {
		return nil, "", err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if dialect == DialectSQLite && maxOpen <= 0 {
		maxOpen = 1
	}
	if maxIdle <= 0 {
		maxIdle = 1
	}
	ConfigureDatabase(db, maxOpen, maxIdle)

	return db, dialect, nil
}

// SQLiteDSN builds a sqlite connection string for path with the driver's busy-timeout parameter.
func SQLiteDSN(driver, path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	switch driver {
	case DriverModernSQLite:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_time_format=sqlite", path, sqliteBusyTimeoutMS)
	default:
		return fmt.Sprintf("file:%s?_busy_timeout=%d", path, sqliteBusyTimeoutMS)
	}
}

// ConfigureDatabase sets connection pool settings for the database.
// Recommended for production use to limit connections and improve performance.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

func driverName(driver string) string {
	if driver == "postgres" {
		return DriverPostgres
	}
	return driver
}
