package database

import (
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/saltyorg/company/internal/logging"
)

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.queryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value. Only keys listed in DefaultSettings are accepted.
func (db *DB) SetSetting(key, value string) error {
	if _, ok := DefaultSettings[key]; !ok {
		return fmt.Errorf("unknown setting %q: %w", key, ErrInvalid)
	}

	_, err := db.exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAllSettings retrieves all settings
func (db *DB) GetAllSettings() (map[string]string, error) {
	rows, err := db.query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// SettingKeys returns the known setting keys in sorted order.
func SettingKeys() []string {
	return slices.Sorted(maps.Keys(DefaultSettings))
}

// Default settings
var DefaultSettings = map[string]string{
	"log.level":        "warn",
	"log.max_size_mb":  strconv.Itoa(logging.DefaultMaxSizeMB),
	"log.max_backups":  strconv.Itoa(logging.DefaultMaxBackups),
	"log.max_age_days": strconv.Itoa(logging.DefaultMaxAgeDays),
	"log.compress":     strconv.FormatBool(logging.DefaultCompress),
}

// InitializeDefaults sets default values for settings that don't exist.
// A stored empty value counts as set.
func (db *DB) InitializeDefaults() error {
	for _, key := range SettingKeys() {
		found, err := db.hasSetting(key)
		if err != nil {
			return err
		}
		if !found {
			if err := db.SetSetting(key, DefaultSettings[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (db *DB) hasSetting(key string) (bool, error) {
	var one int
	err := db.queryRow("SELECT 1 FROM settings WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check setting %s: %w", key, err)
	}
	return true, nil
}
