package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Project represents a row in the Project table. Deadline is free-form text.
type Project struct {
	ID       int64
	Name     string
	Deadline string
}

func (p *Project) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Deadline = strings.TrimSpace(p.Deadline)

	if p.ID <= 0 {
		return fmt.Errorf("project id must be positive: %w", ErrInvalid)
	}
	if p.Name == "" {
		return fmt.Errorf("project name is required: %w", ErrInvalid)
	}
	if p.Deadline == "" {
		return fmt.Errorf("project deadline is required: %w", ErrInvalid)
	}
	return nil
}

// AddProject inserts a new project. A taken id yields ErrDuplicate.
func (db *DB) AddProject(p Project) error {
	if err := p.normalize(); err != nil {
		return err
	}

	_, err := db.exec(`
		INSERT INTO Project (id, name, deadline)
		VALUES (?, ?, ?)
	`, p.ID, p.Name, p.Deadline)
	if isConstraintError(err) {
		return fmt.Errorf("project %d: %w", p.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (db *DB) GetProject(id int64) (*Project, error) {
	p := &Project{}
	err := db.queryRow(`
		SELECT id, name, deadline FROM Project WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Deadline)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects returns every project ordered by id.
func (db *DB) ListProjects() ([]Project, error) {
	rows, err := db.query("SELECT id, name, deadline FROM Project ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Deadline); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
