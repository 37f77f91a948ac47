// Package report renders listings as fixed-width tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/saltyorg/company/internal/database"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Employees writes the employee listing.
func Employees(w io.Writer, employees []database.Employee) error {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Name, e.Position})
	}
	return render(w, []string{"ID", "Name", "Position"}, rows)
}

// Projects writes the project listing.
func Projects(w io.Writer, projects []database.Project) error {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Deadline})
	}
	return render(w, []string{"ID", "Name", "Deadline"}, rows)
}

// Assignments writes employee and project names side by side.
func Assignments(w io.Writer, assignments []database.AssignmentDetail) error {
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []string{a.EmployeeName, a.ProjectName})
	}
	return render(w, []string{"Employee", "Project"}, rows)
}

func render(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
