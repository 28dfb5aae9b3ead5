package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const postgresTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	task_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title VARCHAR(255) NOT NULL CHECK (title <> ''),
	description TEXT,
	due_date DATE,
	priority_level VARCHAR(16) NOT NULL DEFAULT 'Medium'
		CHECK (priority_level IN ('Low', 'Medium', 'High')),
	status VARCHAR(16) NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In Progress', 'Completed')),
	creation_timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqliteTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	task_id INTEGER PRIMARY KEY AUTOINCREMENT,
	title VARCHAR(255) NOT NULL CHECK (title <> ''),
	description TEXT,
	due_date DATE,
	priority_level VARCHAR(16) NOT NULL DEFAULT 'Medium'
		CHECK (priority_level IN ('Low', 'Medium', 'High')),
	status VARCHAR(16) NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In Progress', 'Completed')),
	creation_timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Bootstrap creates the database when it is missing and then the tasks
// table. It is safe to run on every start.
func (m *Manager) Bootstrap(ctx context.Context) error {
	log.Info().Str("driver", m.cfg.Driver).Str("database", m.databaseName()).Msg("Bootstrapping schema")

	if err := m.ensureDatabase(ctx); err != nil {
		return err
	}

	ddl := postgresTasksTable
	if m.cfg.Driver == DriverSQLite {
		ddl = sqliteTasksTable
	}

	err := m.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create tasks table: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Msg("Schema ready")
	return nil
}

func (m *Manager) databaseName() string {
	if m.cfg.Driver == DriverSQLite {
		return m.cfg.Path
	}
	return m.cfg.DBName
}

// ensureDatabase creates the target database. CREATE DATABASE cannot run
// inside a transaction, so this uses a plain connection to the maintenance
// database instead of WithConnection.
func (m *Manager) ensureDatabase(ctx context.Context) error {
	switch m.cfg.Driver {
	case DriverSQLite:
		dir := filepath.Dir(m.cfg.Path)
		if dir == "" || dir == "." {
			return nil
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", m.cfg.Driver)
	}

	db, err := m.open(ctx, m.cfg.dsnFor(m.cfg.MaintenanceDB))
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	err = db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", m.cfg.DBName)
	if err != nil {
		return fmt.Errorf("check database %s: %w", m.cfg.DBName, err)
	}
	if exists {
		return nil
	}

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(m.cfg.DBName)); err != nil {
		return fmt.Errorf("create database %s: %w", m.cfg.DBName, err)
	}
	log.Info().Str("database", m.cfg.DBName).Msg("Created database")
	return nil
}
