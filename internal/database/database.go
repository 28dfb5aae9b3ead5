package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config for database connection
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// MaintenanceDB is the Postgres database used to create DBName when it is missing.
	MaintenanceDB string

	// Path is the SQLite database file.
	Path string
}

// DSN returns the connection string for the configured database.
func (c Config) DSN() string {
	return c.dsnFor(c.DBName)
}

func (c Config) dsnFor(dbName string) string {
	if c.Driver == DriverSQLite {
		// Foreign keys on, wait on a locked file instead of failing.
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, quoteDSNValue(c.Password), dbName, c.SSLMode,
	)
}

// quoteDSNValue quotes a libpq keyword value when it is empty or has spaces.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + dsnEscaper.Replace(v) + "'"
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// TxFunc runs statements against one scoped connection.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// Manager hands out scoped connections. Every WithConnection call opens its
// own connection; nothing is pooled or shared between calls.
type Manager struct {
	cfg Config
}

// NewManager creates a connection manager for cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// WithConnection opens a connection, starts a transaction and runs fn in it.
// The transaction is committed when fn returns nil and rolled back when fn
// returns an error or panics. The connection is closed on every path.
func (m *Manager) WithConnection(ctx context.Context, fn TxFunc) error {
	scope := uuid.NewString()
	logger := log.With().Str("scope", scope).Logger()

	db, err := m.open(ctx, m.cfg.DSN())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close database connection")
		}
	}()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	logger.Debug().Msg("Scoped connection opened")

	defer func() {
		if p := recover(); p != nil {
			if rerr := tx.Rollback(); rerr != nil {
				logger.Error().Err(rerr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	logger.Debug().Msg("Scoped connection committed")
	return nil
}

func (m *Manager) open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, m.cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// rollback aborts tx and keeps err as the primary cause.
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
	}
	return err
}
