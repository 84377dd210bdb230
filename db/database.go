package db

import (
	"database/sql"
	"fmt"
	"os"

	"KestrelFM/config"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var DB *sql.DB

// Connect opens the preference database, creating the data directory when
// needed.
func Connect(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createPlayerStateTable(); err != nil {
		return err
	}
	return nil
}

func createPlayerStateTable() error {
	// A single fixed-id row holds the preference snapshot; last writer wins.
	query := `
	CREATE TABLE IF NOT EXISTS player_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		volume REAL NOT NULL DEFAULT 0.8,
		is_muted INTEGER NOT NULL DEFAULT 0,
		repeat_mode TEXT NOT NULL DEFAULT 'none',
		is_shuffle INTEGER NOT NULL DEFAULT 0,
		current_track_id TEXT NOT NULL DEFAULT '',
		current_album_id TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create player_state table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
