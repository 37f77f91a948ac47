package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Employee represents a row in the Employee table.
type Employee struct {
	ID       int64
	Name     string
	Position string
}

func (e *Employee) normalize() error {
	e.Name = strings.TrimSpace(e.Name)
	e.Position = strings.TrimSpace(e.Position)

	if e.ID <= 0 {
		return fmt.Errorf("employee id must be positive: %w", ErrInvalid)
	}
	if e.Name == "" {
		return fmt.Errorf("employee name is required: %w", ErrInvalid)
	}
	if e.Position == "" {
		return fmt.Errorf("employee position is required: %w", ErrInvalid)
	}
	return nil
}

// AddEmployee inserts a new employee. It returns an error wrapping
// ErrDuplicate when the id is taken; nil means the row was written.
func (db *DB) AddEmployee(e Employee) error {
	if err := e.normalize(); err != nil {
		return err
	}

	_, err := db.exec(`
		INSERT INTO Employee (id, name, position)
		VALUES (?, ?, ?)
	`, e.ID, e.Name, e.Position)
	if isConstraintError(err) {
		return fmt.Errorf("employee %d: %w", e.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to add employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (db *DB) GetEmployee(id int64) (*Employee, error) {
	e := &Employee{}
	err := db.queryRow(`
		SELECT id, name, position FROM Employee WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &e.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns every employee ordered by id.
func (db *DB) ListEmployees() ([]Employee, error) {
	rows, err := db.query("SELECT id, name, position FROM Employee ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
