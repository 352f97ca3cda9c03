package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/debug"
)

// ErrNotConnected is returned when a statement is run before Connect.
var ErrNotConnected = errors.New("database not connected")

// driver captures what differs between the supported databases.
type driver struct {
	name string
	// dsn turns the configured URL into the driver's connection string.
	dsn func(url string) (string, error)
	// pool applies connection pool limits.
	pool func(db *sql.DB, cfg Config)
	// setup runs once after the first successful ping.
	setup []string
}

// SQLAdapter implements Adapter on top of database/sql.
type SQLAdapter struct {
	db     *sql.DB
	config Config
	driver driver
	log    *slog.Logger
}

// New creates an adapter for cfg.Dialect. The connection is opened by
// Connect.
func New(cfg Config) (*SQLAdapter, error) {
	cfg = cfg.withDefaults()

	var drv driver
	switch cfg.Dialect {
	case domain.SQLite:
		drv = sqliteDriver()
	case domain.PostgreSQL:
		drv = postgresDriver()
	case domain.MySQL:
		drv = mysqlDriver()
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", cfg.Dialect)
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("%s: database url is required", cfg.Dialect)
	}

	return &SQLAdapter{
		config: cfg,
		driver: drv,
		log:    debug.For("database").With("dialect", string(cfg.Dialect)),
	}, nil
}

// Connect establishes a connection to the database.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	dsn, err := a.driver.dsn(a.config.URL)
	if err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}

	db, err := sql.Open(a.driver.name, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.driver.pool(db, a.config)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.config.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range a.driver.setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	a.db = db
	a.log.Debug("connected")
	return nil
}

// Disconnect closes the database connection.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute runs a statement that returns no rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	a.log.Debug("exec", "sql", query, "binds", len(args))
	return a.db.ExecContext(ctx, query, args...)
}

// Query runs a statement that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	a.log.Debug("query", "sql", query, "binds", len(args))
	return a.db.QueryContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *SQLAdapter) Begin(ctx context.Context) (Transaction, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, log: a.log}, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// Dialect returns the SQL dialect.
func (a *SQLAdapter) Dialect() domain.Dialect {
	return a.config.Dialect
}

type sqlTx struct {
	tx  *sql.Tx
	log *slog.Logger
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

func (t *sqlTx) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.log.Debug("tx exec", "sql", query, "binds", len(args))
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	t.log.Debug("tx query", "sql", query, "binds", len(args))
	return t.tx.QueryContext(ctx, query, args...)
}

var (
	_ Adapter     = (*SQLAdapter)(nil)
	_ Transaction = (*sqlTx)(nil)
)
