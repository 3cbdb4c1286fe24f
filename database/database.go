package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database. driver is "postgres" or
// "sqlite3"; dsn is a connection string or a file path respectively.
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != "postgres" && driver != "sqlite3" {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite3" {
		// History rows are removed with their product; SQLite needs this
		// per-connection to honor ON DELETE CASCADE.
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// CreateTables creates the schema if it does not exist.
func CreateTables(db *sql.DB, driver string) error {
	serial := "SERIAL PRIMARY KEY"
	if driver == "sqlite3" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
			id %s,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			selector TEXT NOT NULL DEFAULT '',
			target_price DECIMAL(12,2) NOT NULL,
			current_price DECIMAL(12,2),
			notification_email TEXT NOT NULL DEFAULT '',
			target_notified BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_checked TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS price_history (
			id %s,
			product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			price DECIMAL(12,2) NOT NULL,
			recorded_at TIMESTAMP NOT NULL
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history (product_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_active ON products (is_active)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
