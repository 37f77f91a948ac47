package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// schema creates every table if it is missing. Table names match files
// written by earlier releases so an existing company.db opens unchanged.
const schema = `
	-- Employees, keyed by a caller-supplied id
	CREATE TABLE IF NOT EXISTS Employee (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL
	);

	-- Projects, keyed by a caller-supplied id
	CREATE TABLE IF NOT EXISTS Project (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		deadline TEXT NOT NULL
	);

	-- Employee to project links
	CREATE TABLE IF NOT EXISTS Assignment (
		employee_id INTEGER NOT NULL,
		project_id INTEGER NOT NULL,
		PRIMARY KEY (employee_id, project_id),
		FOREIGN KEY (employee_id) REFERENCES Employee(id),
		FOREIGN KEY (project_id) REFERENCES Project(id)
	);

	-- Application settings
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// EnsureSchema creates any missing tables. It is safe to call on every start.
func (db *DB) EnsureSchema() error {
	statements := splitSQLStatements(schema)

	err := db.Transaction(func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().Int("statements", len(statements)).Msg("Database schema ready")
	return nil
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	// Trailing statement without a semicolon
	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
