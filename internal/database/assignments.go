package database

import (
	"database/sql"
	"fmt"
)

// AssignmentDetail is an assignment resolved to employee and project names.
type AssignmentDetail struct {
	EmployeeID   int64
	EmployeeName string
	ProjectID    int64
	ProjectName  string
}

// AssignEmployee links an existing employee to an existing project.
// Missing rows yield ErrNotFound and an existing link yields ErrDuplicate.
func (db *DB) AssignEmployee(employeeID, projectID int64) error {
	return db.Transaction(func(tx *sql.Tx) error {
		found, err := rowExists(tx, "SELECT 1 FROM Employee WHERE id = ?", employeeID)
		if err != nil {
			return fmt.Errorf("failed to check employee: %w", err)
		}
		if !found {
			return fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
		}

		found, err = rowExists(tx, "SELECT 1 FROM Project WHERE id = ?", projectID)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if !found {
			return fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}

		// Files created before the composite key have no unique constraint
		found, err = rowExists(tx, `
			SELECT 1 FROM Assignment WHERE employee_id = ? AND project_id = ?
		`, employeeID, projectID)
		if err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if found {
			return fmt.Errorf("employee %d on project %d: %w", employeeID, projectID, ErrDuplicate)
		}

		_, err = tx.Exec(`
			INSERT INTO Assignment (employee_id, project_id)
			VALUES (?, ?)
		`, employeeID, projectID)
		switch {
		case isForeignKeyError(err):
			return fmt.Errorf("employee %d or project %d: %w", employeeID, projectID, ErrNotFound)
		case isConstraintError(err):
			return fmt.Errorf("employee %d on project %d: %w", employeeID, projectID, ErrDuplicate)
		case err != nil:
			return fmt.Errorf("failed to assign employee: %w", err)
		}
		return nil
	})
}

// ListAssignments returns every assignment with employee and project names,
// ordered by employee id then project id.
func (db *DB) ListAssignments() ([]AssignmentDetail, error) {
	rows, err := db.query(`
		SELECT Employee.id, Employee.name, Project.id, Project.name
		FROM Assignment
		JOIN Employee ON Assignment.employee_id = Employee.id
		JOIN Project ON Assignment.project_id = Project.id
		ORDER BY Employee.id, Project.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	defer rows.Close()

	assignments := []AssignmentDetail{}
	for rows.Next() {
		var a AssignmentDetail
		if err := rows.Scan(&a.EmployeeID, &a.EmployeeName, &a.ProjectID, &a.ProjectName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func rowExists(tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
