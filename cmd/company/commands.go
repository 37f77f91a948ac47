package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saltyorg/company/internal/database"
	"github.com/saltyorg/company/internal/report"
)

func newEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Add or list employees",
	}

	var e database.Employee
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			if err := db.AddEmployee(e); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Employee added successfully!")
			return nil
		}),
	}
	add.Flags().Int64Var(&e.ID, "id", 0, "Employee ID")
	add.Flags().StringVar(&e.Name, "name", "", "Employee name")
	add.Flags().StringVar(&e.Position, "position", "", "Employee position")
	for _, name := range []string{"id", "name", "position"} {
		_ = add.MarkFlagRequired(name)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			employees, err := db.ListEmployees()
			if err != nil {
				return err
			}
			return report.Employees(cmd.OutOrStdout(), employees)
		}),
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Add or list projects",
	}

	var p database.Project
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			if err := db.AddProject(p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project added successfully!")
			return nil
		}),
	}
	add.Flags().Int64Var(&p.ID, "id", 0, "Project ID")
	add.Flags().StringVar(&p.Name, "name", "", "Project name")
	add.Flags().StringVar(&p.Deadline, "deadline", "", "Project deadline (e.g. 2027-01-31)")
	for _, name := range []string{"id", "name", "deadline"} {
		_ = add.MarkFlagRequired(name)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			projects, err := db.ListProjects()
			if err != nil {
				return err
			}
			return report.Projects(cmd.OutOrStdout(), projects)
		}),
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newAssignmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"assign"},
		Short:   "Assign employees to projects or list assignments",
	}

	var employeeID, projectID int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Assign an employee to a project",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			if err := db.AssignEmployee(employeeID, projectID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Employee assigned to project successfully!")
			return nil
		}),
	}
	add.Flags().Int64Var(&employeeID, "employee", 0, "Employee ID")
	add.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	_ = add.MarkFlagRequired("employee")
	_ = add.MarkFlagRequired("project")

	list := &cobra.Command{
		Use:   "list",
		Short: "List assignments with employee and project names",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
			assignments, err := db.ListAssignments()
			if err != nil {
				return err
			}
			return report.Assignments(cmd.OutOrStdout(), assignments)
		}),
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all settings",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
				settings, err := db.GetAllSettings()
				if err != nil {
					return err
				}
				for _, key := range database.SettingKeys() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, settings[key])
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, args []string, db *database.DB) error {
				value, err := db.GetSetting(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting",
			Args:  cobra.ExactArgs(2),
			RunE: withStore(func(cmd *cobra.Command, args []string, db *database.DB) error {
				if err := db.SetSetting(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			}),
		},
	)
	return cmd
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "optimize",
			Short: "Refresh query planner statistics",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
				return db.Optimize()
			}),
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Rebuild the database file to reclaim space",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, _ []string, db *database.DB) error {
				return db.Vacuum()
			}),
		},
	)
	return cmd
}
