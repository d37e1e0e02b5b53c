// Package sqlite stores benchmark history in a local SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/clothespin/internal/bench"
	"github.com/zjrosen/clothespin/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the connection to a bench history database.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the database at path, creating the file and its directory
// if needed, and applies pending migrations. An existing database is copied
// to path+".bak" before migrating.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if err := copyFile(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("backing up database: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatBench, "Opened bench database", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := newMigrateDriver(conn)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller-supplied database path
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// BenchRuns returns the repository for benchmark runs.
func (db *DB) BenchRuns() bench.Repository {
	return newBenchRunRepository(db.conn)
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
