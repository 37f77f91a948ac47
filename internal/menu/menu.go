// Package menu implements the interactive numbered console menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/company/internal/database"
	"github.com/saltyorg/company/internal/report"
)

// Store is the set of database operations the menu dispatches to.
type Store interface {
	AddEmployee(e database.Employee) error
	ListEmployees() ([]database.Employee, error)
	AddProject(p database.Project) error
	ListProjects() ([]database.Project, error)
	AssignEmployee(employeeID, projectID int64) error
	ListAssignments() ([]database.AssignmentDetail, error)
}

const (
	choiceAddEmployee = iota + 1
	choiceListEmployees
	choiceAddProject
	choiceListProjects
	choiceAssign
	choiceListAssignments
	choiceExit
)

var entries = []string{
	choiceAddEmployee:     "Add Employee",
	choiceListEmployees:   "Display Employees",
	choiceAddProject:      "Add Project",
	choiceListProjects:    "Display Projects",
	choiceAssign:          "Assign Employee to Project",
	choiceListAssignments: "Display Assignments",
	choiceExit:            "Exit",
}

// errAbort ends the current operation and returns to the menu.
var errAbort = errors.New("operation aborted")

// Menu reads choices from in and writes prompts and results to out.
type Menu struct {
	store Store
	in    io.Reader
	out   io.Writer
	lines <-chan inputLine
}

// inputLine is one line of input, or the error that ended reading.
type inputLine struct {
	text string
	err  error
}

// New creates a menu over store.
func New(store Store, in io.Reader, out io.Writer) *Menu {
	return &Menu{store: store, in: in, out: out}
}

// Run loops until the user exits, input ends, or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.lines = readLines(ctx, m.in)
	log.Debug().Msg("Menu started")

	for {
		m.printMenu()

		line, err := m.readLine(ctx)
		if err != nil {
			return m.finish(err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < choiceAddEmployee || choice > choiceExit {
			fmt.Fprintf(m.out, "Invalid choice. Enter a number from %d to %d.\n", choiceAddEmployee, choiceExit)
			continue
		}

		if choice == choiceExit {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}

		if err := m.dispatch(ctx, choice); err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Company Management System")
	for i := choiceAddEmployee; i <= choiceExit; i++ {
		fmt.Fprintf(m.out, "%d. %s\n", i, entries[i])
	}
	fmt.Fprint(m.out, "Enter your choice: ")
}

func (m *Menu) dispatch(ctx context.Context, choice int) error {
	var err error
	switch choice {
	case choiceAddEmployee:
		err = m.addEmployee(ctx)
	case choiceListEmployees:
		m.listEmployees()
	case choiceAddProject:
		err = m.addProject(ctx)
	case choiceListProjects:
		m.listProjects()
	case choiceAssign:
		err = m.assign(ctx)
	case choiceListAssignments:
		m.listAssignments()
	}

	if errors.Is(err, errAbort) {
		return nil
	}
	return err
}

func (m *Menu) addEmployee(ctx context.Context) error {
	id, err := m.promptID(ctx, "Enter Employee ID: ")
	if err != nil {
		return err
	}
	name, err := m.prompt(ctx, "Enter Name: ")
	if err != nil {
		return err
	}
	position, err := m.prompt(ctx, "Enter Position: ")
	if err != nil {
		return err
	}

	err = m.store.AddEmployee(database.Employee{ID: id, Name: name, Position: position})
	m.outcome(err, "Employee added successfully!")
	return nil
}

func (m *Menu) addProject(ctx context.Context) error {
	id, err := m.promptID(ctx, "Enter Project ID: ")
	if err != nil {
		return err
	}
	name, err := m.prompt(ctx, "Enter Project Name: ")
	if err != nil {
		return err
	}
	deadline, err := m.prompt(ctx, "Enter Deadline (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	err = m.store.AddProject(database.Project{ID: id, Name: name, Deadline: deadline})
	m.outcome(err, "Project added successfully!")
	return nil
}

func (m *Menu) assign(ctx context.Context) error {
	employeeID, err := m.promptID(ctx, "Enter Employee ID: ")
	if err != nil {
		return err
	}
	projectID, err := m.promptID(ctx, "Enter Project ID: ")
	if err != nil {
		return err
	}

	err = m.store.AssignEmployee(employeeID, projectID)
	m.outcome(err, "Employee assigned to project successfully!")
	return nil
}

func (m *Menu) listEmployees() {
	employees, err := m.store.ListEmployees()
	if err != nil {
		m.fetchFailed("employees", err)
		return
	}
	m.render(report.Employees(m.out, employees))
}

func (m *Menu) listProjects() {
	projects, err := m.store.ListProjects()
	if err != nil {
		m.fetchFailed("projects", err)
		return
	}
	m.render(report.Projects(m.out, projects))
}

func (m *Menu) listAssignments() {
	assignments, err := m.store.ListAssignments()
	if err != nil {
		m.fetchFailed("assignments", err)
		return
	}
	m.render(report.Assignments(m.out, assignments))
}

// outcome reports what a mutating operation actually did.
func (m *Menu) outcome(err error, success string) {
	switch {
	case err == nil:
		fmt.Fprintln(m.out, success)
	case errors.Is(err, database.ErrDuplicate),
		errors.Is(err, database.ErrNotFound),
		errors.Is(err, database.ErrInvalid):
		log.Warn().Err(err).Msg("Operation rejected")
		fmt.Fprintf(m.out, "Not saved: %v\n", err)
	default:
		log.Error().Err(err).Msg("Operation failed")
		fmt.Fprintf(m.out, "Error: %v\n", err)
	}
}

func (m *Menu) fetchFailed(what string, err error) {
	log.Error().Err(err).Str("listing", what).Msg("Failed to fetch rows")
	fmt.Fprintf(m.out, "Failed to fetch %s: %v\n", what, err)
}

func (m *Menu) render(err error) {
	if err != nil {
		log.Error().Err(err).Msg("Failed to write listing")
	}
}

func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) promptID(ctx context.Context, label string) (int64, error) {
	raw, err := m.prompt(ctx, label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(m.out, "Invalid ID %q: must be a whole number.\n", raw)
		return 0, errAbort
	}
	return id, nil
}

func (m *Menu) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

// finish turns end of input or cancellation into a clean exit.
func (m *Menu) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Goodbye!")
		log.Debug().Err(err).Msg("Menu stopped")
		return nil
	}
	log.Error().Err(err).Msg("Menu stopped on input error")
	return err
}

// readLines feeds input lines to a channel so reads can be abandoned on cancel.
// Lines have no length limit. A read error other than EOF is delivered as the
// last item and any partial line before it is dropped.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)

		send := func(l inputLine) bool {
			select {
			case lines <- l:
				return true
			case <-ctx.Done():
				return false
			}
		}

		reader := bufio.NewReader(in)
		for {
			text, err := reader.ReadString('\n')
			switch {
			case err == nil:
				if !send(inputLine{text: strings.TrimRight(text, "\r\n")}) {
					return
				}
			case errors.Is(err, io.EOF):
				// Final line without a newline
				if text != "" {
					send(inputLine{text: strings.TrimRight(text, "\r")})
				}
				return
			default:
				send(inputLine{err: fmt.Errorf("failed to read input: %w", err)})
				return
			}
		}
	}()
	return lines
}
