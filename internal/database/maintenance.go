package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (db *DB) Optimize() error {
	return db.maintain("PRAGMA optimize", "optimize")
}

// Vacuum rebuilds the database file to reclaim unused space.
func (db *DB) Vacuum() error {
	return db.maintain("VACUUM", "vacuum")
}

func (db *DB) maintain(stmt, name string) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.exec(stmt); err != nil {
		return fmt.Errorf("failed to %s database: %w", name, err)
	}

	log.Info().Str("path", db.path).Str("operation", name).Msg("Database maintenance complete")
	return nil
}
