package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MemDbg/TaskManagerCLI/internal/config"
	"github.com/MemDbg/TaskManagerCLI/internal/console"
	"github.com/MemDbg/TaskManagerCLI/internal/database"
	"github.com/MemDbg/TaskManagerCLI/internal/logging"
	"github.com/MemDbg/TaskManagerCLI/internal/repository"
	"github.com/MemDbg/TaskManagerCLI/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	envFile   string
	logFile   string
	verbosity int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "taskmanager",
		Short:        "Task Manager - terminal task tracker",
		Long:         `Task Manager tracks tasks in a relational database through an interactive menu.`,
		SilenceUsage: true,
		RunE:         runMenu,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (overrides LOG_FILE)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity and mirror logs to stderr (-v debug, -vv trace)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the database and tasks table if they do not exist",
		RunE:  runMigrate,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskmanager %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and bootstraps the schema.
func setup(ctx context.Context) (*config.Config, *database.Manager, func(), error) {
	// Load .env file
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, nil, nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, nil, nil, err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	closer := logging.Setup(cfg.Log, verbosity, os.Stderr)
	cleanup := func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}

	log.Info().
		Str("version", version).
		Str("environment", cfg.App.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("Starting Task Manager")

	db := database.NewManager(cfg.ToDatabaseConfig())
	if err := db.Bootstrap(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to bootstrap database")
		cleanup()
		return nil, nil, nil, fmt.Errorf("bootstrap database: %w", err)
	}

	return cfg, db, cleanup, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, _, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("Database schema is up to date.")
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, db, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	taskService := service.NewTaskService(
		repository.NewTaskRepository(db),
		service.DefaultValidationConfig(),
		cfg.App.ItemsPerPage,
	)

	if err := console.New(taskService, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Error().Err(err).Msg("Console stopped")
		return err
	}

	log.Info().Msg("Task Manager closed")
	fmt.Println("Goodbye!")
	return nil
}
