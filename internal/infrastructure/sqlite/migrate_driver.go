package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

const versionTable = "schema_migrations"

// migrateDriver runs golang-migrate migrations over an already open
// connection, so the ncruces driver stays the only registered sqlite3
// implementation.
type migrateDriver struct {
	conn   *sql.DB
	locked atomic.Bool
}

var _ database.Driver = (*migrateDriver)(nil)

func newMigrateDriver(conn *sql.DB) (*migrateDriver, error) {
	_, err := conn.Exec(`CREATE TABLE IF NOT EXISTS ` + versionTable + ` (
		version INTEGER NOT NULL PRIMARY KEY,
		dirty   INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating %s table: %w", versionTable, err)
	}
	return &migrateDriver{conn: conn}, nil
}

func (d *migrateDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("sqlite: open the database with NewDB")
}

// Close is a no-op; DB owns the connection.
func (d *migrateDriver) Close() error {
	return nil
}

func (d *migrateDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *migrateDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

func (d *migrateDriver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return fmt.Errorf("reading migration: %w", err)
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(body)); err != nil {
			return &database.Error{OrigErr: err, Err: "migration failed", Query: body}
		}
		return nil
	})
}

func (d *migrateDriver) SetVersion(version int, dirty bool) error {
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM ` + versionTable); err != nil {
			return err
		}
		if version < 0 && !dirty {
			return nil
		}
		_, err := tx.Exec(`INSERT INTO `+versionTable+` (version, dirty) VALUES (?, ?)`, version, dirty)
		return err
	})
}

func (d *migrateDriver) Version() (int, bool, error) {
	var version int
	var dirty bool
	err := d.conn.QueryRow(`SELECT version, dirty FROM ` + versionTable + ` LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return database.NilVersion, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading schema version: %w", err)
	}
	return version, dirty, nil
}

func (d *migrateDriver) Drop() error {
	rows, err := d.conn.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	return d.inTx(func(tx *sql.Tx) error {
		for _, name := range tables {
			if _, err := tx.Exec(`DROP TABLE IF EXISTS "` + name + `"`); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *migrateDriver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.conn.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
