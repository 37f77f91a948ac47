package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := New(path)
	require.NoError(t, err, "failed to open db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(), "failed to create schema")
	return db
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "company.db"))
}

func TestAddEmployee_ListedOnce(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada Lovelace", Position: "Engineer"}))

	employees, err := db.ListEmployees()
	require.NoError(t, err)
	assert.Equal(t, []Employee{{ID: 1, Name: "Ada Lovelace", Position: "Engineer"}}, employees)
}

func TestAddEmployee_DuplicateIDRejected(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 7, Name: "Grace", Position: "Admiral"}))

	err := db.AddEmployee(Employee{ID: 7, Name: "Linus", Position: "Maintainer"})
	require.ErrorIs(t, err, ErrDuplicate)

	employees, err := db.ListEmployees()
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Grace", employees[0].Name)
}

func TestAddEmployee_Validation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name     string
		employee Employee
	}{
		{name: "zero id", employee: Employee{ID: 0, Name: "A", Position: "B"}},
		{name: "negative id", employee: Employee{ID: -3, Name: "A", Position: "B"}},
		{name: "blank name", employee: Employee{ID: 1, Name: "   ", Position: "B"}},
		{name: "blank position", employee: Employee{ID: 1, Name: "A", Position: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, db.AddEmployee(tt.employee), ErrInvalid)
		})
	}

	employees, err := db.ListEmployees()
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestAddEmployee_QuotesStoredVerbatim(t *testing.T) {
	db := newTestDB(t)

	name := "O'Brien'); DROP TABLE Employee; --"
	require.NoError(t, db.AddEmployee(Employee{ID: 3, Name: name, Position: "Chief 'Ops'"}))

	got, err := db.GetEmployee(3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, "Chief 'Ops'", got.Position)
}

func TestGetEmployee_Missing(t *testing.T) {
	db := newTestDB(t)

	got, err := db.GetEmployee(42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddProject_ListedOnce(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddProject(Project{ID: 10, Name: "Apollo", Deadline: "2027-01-31"}))
	require.ErrorIs(t, db.AddProject(Project{ID: 10, Name: "Gemini", Deadline: "2027-06-30"}), ErrDuplicate)

	projects, err := db.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []Project{{ID: 10, Name: "Apollo", Deadline: "2027-01-31"}}, projects)

	got, err := db.GetProject(10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Apollo", got.Name)
}

func TestAddProject_Validation(t *testing.T) {
	db := newTestDB(t)

	assert.ErrorIs(t, db.AddProject(Project{ID: 1, Name: "X", Deadline: " "}), ErrInvalid)
	assert.ErrorIs(t, db.AddProject(Project{ID: 1, Name: "", Deadline: "soon"}), ErrInvalid)
	assert.ErrorIs(t, db.AddProject(Project{ID: 0, Name: "X", Deadline: "soon"}), ErrInvalid)
}

func TestListings_EmptyTables(t *testing.T) {
	db := newTestDB(t)

	employees, err := db.ListEmployees()
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)

	projects, err := db.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)

	assignments, err := db.ListAssignments()
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAssignEmployee_ListsNames(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.AddEmployee(Employee{ID: 2, Name: "Grace", Position: "Admiral"}))
	require.NoError(t, db.AddProject(Project{ID: 100, Name: "Engine", Deadline: "1843"}))
	require.NoError(t, db.AddProject(Project{ID: 200, Name: "Compiler", Deadline: "1952"}))

	require.NoError(t, db.AssignEmployee(2, 200))
	require.NoError(t, db.AssignEmployee(1, 100))
	require.NoError(t, db.AssignEmployee(1, 200))

	assignments, err := db.ListAssignments()
	require.NoError(t, err)
	assert.Equal(t, []AssignmentDetail{
		{EmployeeID: 1, EmployeeName: "Ada", ProjectID: 100, ProjectName: "Engine"},
		{EmployeeID: 1, EmployeeName: "Ada", ProjectID: 200, ProjectName: "Compiler"},
		{EmployeeID: 2, EmployeeName: "Grace", ProjectID: 200, ProjectName: "Compiler"},
	}, assignments)
}

func TestAssignEmployee_MissingReferences(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.AddProject(Project{ID: 100, Name: "Engine", Deadline: "1843"}))

	assert.ErrorIs(t, db.AssignEmployee(9, 100), ErrNotFound)
	assert.ErrorIs(t, db.AssignEmployee(1, 900), ErrNotFound)

	assignments, err := db.ListAssignments()
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAssignEmployee_Duplicate(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.AddProject(Project{ID: 100, Name: "Engine", Deadline: "1843"}))

	require.NoError(t, db.AssignEmployee(1, 100))
	require.ErrorIs(t, db.AssignEmployee(1, 100), ErrDuplicate)

	assignments, err := db.ListAssignments()
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestAssignEmployee_ForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t)

	_, err := db.exec("INSERT INTO Assignment (employee_id, project_id) VALUES (?, ?)", 5, 6)
	require.Error(t, err)
	assert.True(t, isForeignKeyError(err), "expected foreign key error, got %v", err)
}

func TestRowsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema())
	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.AddProject(Project{ID: 100, Name: "Engine", Deadline: "1843"}))
	require.NoError(t, db.AssignEmployee(1, 100))
	require.NoError(t, db.Close())

	reopened := openTestDB(t, path)

	employees, err := reopened.ListEmployees()
	require.NoError(t, err)
	assert.Equal(t, []Employee{{ID: 1, Name: "Ada", Position: "Engineer"}}, employees)

	assignments, err := reopened.ListAssignments()
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Engine", assignments[0].ProjectName)
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "company.db")

	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.FileExists(t, path)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.EnsureSchema())

	employees, err := db.ListEmployees()
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestSplitSQLStatements(t *testing.T) {
	sql := `
		-- comment
		CREATE TABLE a (id INTEGER);

		CREATE TABLE b (
			id INTEGER
		);
		SELECT 1`

	statements := splitSQLStatements(sql)
	require.Len(t, statements, 3)
	assert.Equal(t, "CREATE TABLE a (id INTEGER);", statements[0])
	assert.Contains(t, statements[1], "CREATE TABLE b")
	assert.Equal(t, "SELECT 1", statements[2])
}

func TestSettings_DefaultsAndUpdates(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.InitializeDefaults())

	level, err := db.GetSetting("log.level")
	require.NoError(t, err)
	assert.Equal(t, "warn", level)

	require.NoError(t, db.SetSetting("log.level", "debug"))
	require.NoError(t, db.InitializeDefaults())

	level, err = db.GetSetting("log.level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level, "defaults must not overwrite stored values")

	all, err := db.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultSettings))

	assert.ErrorIs(t, db.SetSetting("no.such.key", "1"), ErrInvalid)

	missing, err := db.GetSetting("no.such.key")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMaintenance(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	assert.NoError(t, db.Optimize())
	assert.NoError(t, db.Vacuum())
}

func TestNew_ReservedURICharactersInPath(t *testing.T) {
	for _, name := range []string{"a?b.db", "c#d.db", "e%20f.db"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)

			db := openTestDB(t, path)
			require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
			require.NoError(t, db.Close())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.Equal(t, []string{name}, names)

			reopened := openTestDB(t, path)
			employees, err := reopened.ListEmployees()
			require.NoError(t, err)
			assert.Len(t, employees, 1)
		})
	}
}

func TestAssignEmployee_DuplicateOnKeylessTable(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "company.db"))
	require.NoError(t, err)
	defer db.Close()

	// Layout written by older releases: no key on the pair
	_, err = db.exec(`
		CREATE TABLE Assignment (
			employee_id INTEGER,
			project_id INTEGER,
			FOREIGN KEY(employee_id) REFERENCES Employee(id),
			FOREIGN KEY(project_id) REFERENCES Project(id)
		)
	`)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema())

	require.NoError(t, db.AddEmployee(Employee{ID: 1, Name: "Ada", Position: "Engineer"}))
	require.NoError(t, db.AddProject(Project{ID: 100, Name: "Engine", Deadline: "1843"}))

	require.NoError(t, db.AssignEmployee(1, 100))
	require.ErrorIs(t, db.AssignEmployee(1, 100), ErrDuplicate)

	var count int
	require.NoError(t, db.queryRow("SELECT COUNT(*) FROM Assignment").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInitializeDefaults_KeepsEmptyValue(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.InitializeDefaults())
	require.NoError(t, db.SetSetting("log.level", ""))
	require.NoError(t, db.InitializeDefaults())

	level, err := db.GetSetting("log.level")
	require.NoError(t, err)
	assert.Empty(t, level)

	found, err := db.hasSetting("log.level")
	require.NoError(t, err)
	assert.True(t, found)
}
