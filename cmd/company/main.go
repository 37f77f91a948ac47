package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/company/internal/config"
	"github.com/saltyorg/company/internal/database"
	"github.com/saltyorg/company/internal/logging"
	"github.com/saltyorg/company/internal/menu"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	dbPath    string
	logFile   string
	verbosity int
)

func main() {
	err := newRootCmd().Execute()
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "company",
		Short:        "Company - employee and project tracker",
		Long:         `Company stores employees, projects and project assignments in a local SQLite file. Run without a subcommand for the interactive menu.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         withStore(runMenu),
	}

	// Flags
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", database.DefaultPath, "SQLite database path (or set DB_PATH env var)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: company.log next to the database)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		newEmployeeCmd(),
		newProjectCmd(),
		newAssignmentCmd(),
		newSettingsCmd(),
		newDBCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "company %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

func runMenu(cmd *cobra.Command, _ []string, db *database.DB) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return menu.New(db, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}

// withStore opens the database for the duration of one command.
func withStore(fn func(cmd *cobra.Command, args []string, db *database.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}()
		return fn(cmd, args, db)
	}
}

func openStore() (*database.DB, error) {
	// Check for DB_PATH env var if using default
	if dbPath == database.DefaultPath {
		if envDB := os.Getenv("DB_PATH"); envDB != "" {
			dbPath = envDB
		}
	}
	if logFile == "" {
		logFile = logging.FilePathForDB(dbPath)
	}

	// Console and file logging with defaults until settings are readable
	logging.Apply(logging.LevelForVerbosity(verbosity, ""), nil, logFile)

	db, err := database.New(dbPath)
	if err != nil {
		log.Error().Err(err).Str("database", dbPath).Msg("Failed to initialize database")
		return nil, err
	}

	if err := db.EnsureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.InitializeDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}

	loader := config.NewLoader(db)
	logging.Apply(logging.LevelForVerbosity(verbosity, loader.String("log.level", "")), loader, logFile)

	log.Debug().
		Str("version", version).
		Str("database", dbPath).
		Str("log_file", logFile).
		Msg("Starting Company")

	return db, nil
}
