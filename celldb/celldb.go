// Package celldb looks up cell ids in a SQLite directory of registered
// cell sites.
package celldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

const schema = `
CREATE TABLE IF NOT EXISTS cellids (
	cellid    TEXT PRIMARY KEY,
	cellkey   TEXT NOT NULL DEFAULT '',
	address   TEXT NOT NULL DEFAULT '',
	latitude  TEXT NOT NULL DEFAULT '',
	longitude TEXT NOT NULL DEFAULT '',
	azimuth   TEXT NOT NULL DEFAULT ''
)`

// cellkey is the id without its "-" separators; lookups search it through
// cellids_cellkey and prefer the exact id when several cells share a key.
const lookupQuery = `
        SELECT cellid, address, latitude, longitude, azimuth
          FROM cellids
         WHERE cellkey=?
         ORDER BY cellid=? DESC
         LIMIT 1`

func key(id string) string { return strings.ReplaceAll(id, "-", "") }

// DB is a cell directory backed by a SQLite file.
type DB struct {
	db *sql.DB
}

// Open opens the directory at path read-only.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open cell db %s: %w", path, err)
	}
	keyed, err := hasKey(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open cell db %s: %w", path, err)
	}
	if !keyed {
		db.Close()
		return nil, fmt.Errorf("open cell db %s: no cellkey column, run cells import to upgrade it", path)
	}
	return &DB{db: db}, nil
}

// Create opens path read-write, creating the file and table if needed.
func Create(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=rwc", path))
	if err != nil {
		return nil, fmt.Errorf("create cell db %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cell db %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

func hasKey(db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('cellids') WHERE name='cellkey'`).Scan(&n)
	return n > 0, err
}

// migrate creates the table, backfilling cellkey on tables written before
// the column existed.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	keyed, err := hasKey(db)
	if err != nil {
		return err
	}
	if !keyed {
		if _, err := db.Exec(`ALTER TABLE cellids ADD COLUMN cellkey TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
		if _, err := db.Exec(`UPDATE cellids SET cellkey=REPLACE(cellid,'-','')`); err != nil {
			return err
		}
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS cellids_cellkey ON cellids(cellkey)`)
	return err
}

// Put inserts or replaces cells.
func (d *DB) Put(ctx context.Context, cells ...cdr.Cell) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT OR REPLACE INTO cellids (cellid, cellkey, address, latitude, longitude, azimuth)
	           VALUES (?, ?, ?, ?, ?, ?)`
	for _, c := range cells {
		if _, err := tx.ExecContext(ctx, q, c.ID, key(c.ID), c.Address, c.Latitude, c.Longitude, c.Azimuth); err != nil {
			return fmt.Errorf("put cell %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// Lookup returns the cell registered under id. Ids match with or without
// their "-" separators.
func (d *DB) Lookup(id string) (cdr.Cell, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cdr.Cell{}, false
	}
	var c cdr.Cell
	err := d.db.QueryRow(lookupQuery, key(id), id).
		Scan(&c.ID, &c.Address, &c.Latitude, &c.Longitude, &c.Azimuth)
	return c, err == nil
}

// Close releases the connection.
func (d *DB) Close() error { return d.db.Close() }
