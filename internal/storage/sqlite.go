// Package storage opens the sqlite database shared by the catalog, RFQ and BOM stores.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	sku         TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL,
	family      TEXT NOT NULL DEFAULT '',
	grade       TEXT NOT NULL DEFAULT '',
	standards   TEXT NOT NULL DEFAULT '',
	dimension   TEXT NOT NULL DEFAULT '',
	finish      TEXT NOT NULL DEFAULT '',
	price_unit  TEXT NOT NULL DEFAULT 'buc',
	unit_price  TEXT NOT NULL DEFAULT '0',
	currency    TEXT NOT NULL DEFAULT 'RON',
	is_active   INTEGER NOT NULL DEFAULT 1,
	position    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_family ON products(family);
CREATE INDEX IF NOT EXISTS idx_products_position ON products(position, id);

CREATE TABLE IF NOT EXISTS rfqs (
	id            TEXT PRIMARY KEY,
	reference     TEXT NOT NULL UNIQUE,
	status        TEXT NOT NULL,
	company_cui   TEXT NOT NULL,
	contact_email TEXT NOT NULL,
	payload       TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rfqs_email ON rfqs(contact_email, created_at);

CREATE TABLE IF NOT EXISTS bom_uploads (
	id          TEXT PRIMARY KEY,
	file_name   TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	payload     TEXT NOT NULL
);
`

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database, handy for tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: sqlite serializes writers anyway and :memory: is per-connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// EscapeLike escapes LIKE wildcards; use with ESCAPE '\'.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
